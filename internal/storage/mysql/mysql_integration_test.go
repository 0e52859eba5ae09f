//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"

	"nomad_hotel/internal/domain"
	mysqlrepo "nomad_hotel/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }
func pint64(i int64) *int64 { return &i }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// startMySQL runs an isolated MySQL with the schema applied.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=nomad",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "nomad")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_CatalogueHotelsBookings(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	// Arrange: country, city, tags
	lk := domain.Country{Name: "Sri Lanka", Code: "LK"}
	if err := repo.CreateCountry(ctx, &lk); err != nil {
		t.Fatalf("CreateCountry: %v", err)
	}
	dup := domain.Country{Name: "Lanka", Code: "LK"}
	if err := repo.CreateCountry(ctx, &dup); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("duplicate code: want ErrDuplicate, got %v", err)
	}
	galle := domain.City{CountryID: &lk.ID, Name: pstr("Galle")}
	if err := repo.CreateCity(ctx, &galle); err != nil {
		t.Fatalf("CreateCity: %v", err)
	}
	beach := domain.ExperienceTag{Label: pstr("Beach")}
	surf := domain.ExperienceTag{Label: pstr("Surfing")}
	for _, e := range []*domain.ExperienceTag{&beach, &surf} {
		if err := repo.CreateExperience(ctx, e); err != nil {
			t.Fatalf("CreateExperience: %v", err)
		}
	}

	// Hotel with tags, one item, one image
	h := domain.Hotel{
		Name:      pstr("Sea View"),
		Street:    pstr("1 Beach Rd"),
		CityID:    &galle.ID,
		CountryID: &lk.ID,
		TagIDs:    []int64{surf.ID, beach.ID},
	}
	if err := repo.CreateHotel(ctx, &h); err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	item := domain.ReservationItem{
		HotelID:  h.ID,
		Label:    pstr("Double"),
		PriceUSD: decimal.NewNullDecimal(decimal.RequireFromString("120.5")),
	}
	if err := repo.AddReservationItem(ctx, &item); err != nil {
		t.Fatalf("AddReservationItem: %v", err)
	}
	img := domain.HotelImage{HotelID: h.ID, Image: pstr("hotel_images/a.jpg")}
	if err := repo.AddImage(ctx, &img); err != nil {
		t.Fatalf("AddImage: %v", err)
	}

	// Assert: detail bundle
	b, err := repo.GetHotel(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if b.Hotel.City == nil || b.Hotel.Country == nil || b.Hotel.Country.Code != "LK" {
		t.Fatalf("unresolved location: %+v", b.Hotel)
	}
	if len(b.Hotel.Tags) != 2 || len(b.Items) != 1 || len(b.Images) != 1 {
		t.Fatalf("bundle: tags=%d items=%d images=%d", len(b.Hotel.Tags), len(b.Items), len(b.Images))
	}
	// tags come back in link order, not id order
	if b.Hotel.Tags[0].ID != surf.ID || b.Hotel.Tags[1].ID != beach.ID {
		t.Fatalf("tag order = %v, want [%d %d]", b.Hotel.TagIDs, surf.ID, beach.ID)
	}
	if got := b.Hotel.ExperiencesList(); got != "Surfing, Beach" {
		t.Fatalf("experiences_list = %q", got)
	}
	if got := b.Items[0].PriceUSD.Decimal.StringFixed(2); got != "120.50" {
		t.Fatalf("price = %s", got)
	}
	if b.Items[0].PriceLKR.Valid {
		t.Fatalf("lkr should be NULL")
	}

	// Tag search is an OR over tags; update replaces the links
	hs, err := repo.ListHotels(ctx, domain.HotelsQuery{TagIDs: []int64{surf.ID, 9999}})
	if err != nil || len(hs) != 1 {
		t.Fatalf("ListHotels by tag: %d, %v", len(hs), err)
	}
	h.TagIDs = []int64{beach.ID}
	if err := repo.UpdateHotel(ctx, &h); err != nil {
		t.Fatalf("UpdateHotel: %v", err)
	}
	hs, _ = repo.ListHotels(ctx, domain.HotelsQuery{TagIDs: []int64{surf.ID}})
	if len(hs) != 0 {
		t.Fatalf("stale tag link after update")
	}
	missing := domain.Hotel{ID: 424242}
	if err := repo.UpdateHotel(ctx, &missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}

	// Bookings pin the reservation item
	g := domain.Guest{Name: pstr("Ann"), CountryID: &lk.ID}
	if err := repo.CreateGuest(ctx, &g); err != nil {
		t.Fatalf("CreateGuest: %v", err)
	}
	in := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	out := in.Add(48 * time.Hour)
	bk := domain.Booking{GuestID: &g.ID, ReservationItemID: &item.ID, CheckIn: &in, CheckOut: &out}
	if err := repo.CreateBooking(ctx, &bk); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	got, err := repo.GetBooking(ctx, bk.ID)
	if err != nil || got.CheckIn == nil || !got.CheckIn.Equal(in) {
		t.Fatalf("GetBooking: %+v, %v", got, err)
	}

	// Delete protection, innermost first
	var rerr *domain.ReferenceError
	if _, err := repo.DeleteReservationItem(ctx, item.ID); !errors.As(err, &rerr) || rerr.Dependent != "bookings" {
		t.Fatalf("delete item: %v", err)
	}
	if err := repo.DeleteHotel(ctx, h.ID); !errors.As(err, &rerr) || rerr.Dependent != "reservation_items" {
		t.Fatalf("delete hotel: %v", err)
	}
	if err := repo.DeleteCountry(ctx, lk.ID); !errors.As(err, &rerr) || rerr.Dependent != "cities" {
		t.Fatalf("delete country: %v", err)
	}

	if err := repo.DeleteBooking(ctx, bk.ID); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	hotelID, err := repo.DeleteReservationItem(ctx, item.ID)
	if err != nil || hotelID != h.ID {
		t.Fatalf("DeleteReservationItem = %d, %v", hotelID, err)
	}
	if _, err := repo.DeleteImage(ctx, img.ID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if err := repo.DeleteHotel(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHotel: %v", err)
	}
	if _, err := repo.GetHotel(ctx, h.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetHotel after delete: %v", err)
	}
	if err := repo.DeleteExperience(ctx, surf.ID); err != nil {
		t.Fatalf("DeleteExperience: %v", err)
	}
}

func TestRepo_MySQL_DanglingForeignKey(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	h := domain.Hotel{Name: pstr("Nowhere"), CityID: pint64(777)}
	err := repo.CreateHotel(ctx, &h)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields["location_city"]) == 0 {
		t.Fatalf("want location_city validation error, got %v", err)
	}
}
