package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"nomad_hotel/internal/app"
	"nomad_hotel/internal/domain"
	"nomad_hotel/internal/storage/memory"
)

type hotelFixture struct {
	store   *memory.Store
	cache   *fakeCache
	svc     *app.HotelService
	lk, fr  int64
	galle   int64
	beach   int64
	surfing int64
}

func newHotelFixture(t *testing.T) hotelFixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	f := hotelFixture{store: st, cache: &fakeCache{}}
	f.svc = app.NewHotelService(st, st, f.cache, time.Minute)

	lk := domain.Country{Name: "Sri Lanka", Code: "LK"}
	fr := domain.Country{Name: "France", Code: "FR"}
	_ = st.CreateCountry(ctx, &lk)
	_ = st.CreateCountry(ctx, &fr)
	galle := domain.City{CountryID: &lk.ID, Name: ptr("Galle")}
	_ = st.CreateCity(ctx, &galle)
	beach := domain.ExperienceTag{Label: ptr("Beach")}
	surfing := domain.ExperienceTag{Label: ptr("Surfing")}
	_ = st.CreateExperience(ctx, &beach)
	_ = st.CreateExperience(ctx, &surfing)

	f.lk, f.fr, f.galle, f.beach, f.surfing = lk.ID, fr.ID, galle.ID, beach.ID, surfing.ID
	return f
}

func TestCreateHotel_FillsCountryFromCity(t *testing.T) {
	f := newHotelFixture(t)
	h, err := f.svc.CreateHotel(context.Background(), app.HotelInput{
		Name: ptr("Sea View"),
		City: &f.galle,
		Tags: []int64{f.beach, f.beach, f.surfing},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.Country == nil || h.Country.ID != f.lk {
		t.Fatalf("country = %+v, want %d", h.Country, f.lk)
	}
	if h.City == nil || h.City.ID != f.galle {
		t.Fatalf("city = %+v, want %d", h.City, f.galle)
	}
	if len(h.Tags) != 2 {
		t.Fatalf("tags = %+v, want 2 distinct", h.Tags)
	}
}

func TestCreateHotel_LocationMismatchWritesNothing(t *testing.T) {
	f := newHotelFixture(t)
	_, err := f.svc.CreateHotel(context.Background(), app.HotelInput{
		Name:    ptr("Wrong Place"),
		City:    &f.galle,
		Country: &f.fr,
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	msgs := verr.Fields[domain.NonFieldErrors]
	if len(msgs) != 1 || msgs[0] != domain.MsgLocationMismatch {
		t.Fatalf("non_field_errors = %v", msgs)
	}
	if hs, _ := f.store.ListHotels(context.Background(), domain.HotelsQuery{}); len(hs) != 0 {
		t.Fatalf("hotels stored = %d, want 0", len(hs))
	}
}

func TestCreateHotel_CollectsDanglingReferences(t *testing.T) {
	f := newHotelFixture(t)
	_, err := f.svc.CreateHotel(context.Background(), app.HotelInput{
		City:    ptr[int64](999),
		Country: ptr[int64](998),
		Tags:    []int64{f.beach, 997},
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	for _, field := range []string{"location_city", "location_country", "experience_tags"} {
		if len(verr.Fields[field]) == 0 {
			t.Errorf("missing error for %s: %v", field, verr.Fields)
		}
	}
	if !strings.Contains(verr.Fields["location_city"][0], `"999"`) {
		t.Errorf("message = %q", verr.Fields["location_city"][0])
	}
}

func TestCreateHotel_InvalidEmail(t *testing.T) {
	f := newHotelFixture(t)
	_, err := f.svc.CreateHotel(context.Background(), app.HotelInput{Email: ptr("not-an-email")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["email"]) == 0 {
		t.Fatalf("want email error, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("errors.Is(ErrInvalid) = false")
	}
}

func TestCreateHotel_BlankOptionalStringsStoredAsNull(t *testing.T) {
	f := newHotelFixture(t)
	h, err := f.svc.CreateHotel(context.Background(), app.HotelInput{Name: ptr("  "), Email: ptr("")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.Name != nil {
		t.Fatalf("name = %q, want nil", *h.Name)
	}
}

func TestHotelViews_Projections(t *testing.T) {
	f := newHotelFixture(t)
	ctx := context.Background()
	h, err := f.svc.CreateHotel(ctx, app.HotelInput{Name: ptr("Sea View"), City: &f.galle, Tags: []int64{f.beach}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	usd := json.Number("12.5")
	if _, err := f.svc.AddReservationItem(ctx, h.ID, app.ReservationItemInput{Label: ptr("Double"), PriceUSD: &usd}); err != nil {
		t.Fatalf("item: %v", err)
	}
	for _, ref := range []string{"a.jpg", "b.jpg"} {
		if _, err := f.svc.AddImage(ctx, h.ID, app.ImageInput{Image: ref}); err != nil {
			t.Fatalf("image: %v", err)
		}
	}

	featured, err := f.svc.Featured(ctx, 10)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	fb, _ := json.Marshal(featured)
	for _, k := range []string{`"experience_tags"`, `"hotel_reservation"`, `"hotel_image"`} {
		if strings.Contains(string(fb), k) {
			t.Errorf("featured view leaks %s: %s", k, fb)
		}
	}
	if !strings.Contains(string(fb), `"country_code":"LK"`) {
		t.Errorf("featured view should nest the country: %s", fb)
	}

	found, err := f.svc.Search(ctx, []int64{f.beach}, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	sb, _ := json.Marshal(found)
	if !strings.Contains(string(sb), `"experience_tags":[{"expid":`) || strings.Contains(string(sb), `"hotel_image"`) {
		t.Errorf("search view = %s", sb)
	}

	detail, err := f.svc.GetHotel(ctx, h.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	db, _ := json.Marshal(detail)
	if !strings.Contains(string(db), `"hotel_image":["a.jpg","b.jpg"]`) {
		t.Errorf("images not flattened: %s", db)
	}
	if !strings.Contains(string(db), `"priceinfo_usd":"12.50"`) || !strings.Contains(string(db), `"priceinfo_lkr":null`) {
		t.Errorf("prices = %s", db)
	}
}

func TestSearch_NoMatchesIsEmpty(t *testing.T) {
	f := newHotelFixture(t)
	ctx := context.Background()
	if _, err := f.svc.CreateHotel(ctx, app.HotelInput{Name: ptr("Plain")}); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.Search(ctx, []int64{f.surfing}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d hotels, want 0", len(got))
	}
	all, _ := f.svc.Search(ctx, nil, 0)
	if len(all) != 1 {
		t.Fatalf("no filter: got %d, want 1", len(all))
	}
}

func TestGetHotel_ReadThroughAndEviction(t *testing.T) {
	f := newHotelFixture(t)
	ctx := context.Background()
	h, err := f.svc.CreateHotel(ctx, app.HotelInput{Name: ptr("Old")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.GetHotel(ctx, h.ID); err != nil {
		t.Fatal(err)
	}

	// change the row behind the cache's back
	if err := f.store.UpdateHotel(ctx, &domain.Hotel{ID: h.ID, Name: ptr("Sneaky")}); err != nil {
		t.Fatal(err)
	}

	got, _ := f.svc.GetHotel(ctx, h.ID)
	if got.Name == nil || *got.Name != "Old" {
		t.Fatalf("expected cached name, got %v", got.Name)
	}

	if _, err := f.svc.UpdateHotel(ctx, h.ID, app.HotelInput{Name: ptr("New")}); err != nil {
		t.Fatal(err)
	}
	got, _ = f.svc.GetHotel(ctx, h.ID)
	if got.Name == nil || *got.Name != "New" {
		t.Fatalf("after update name = %v, want New", got.Name)
	}
}

func TestDeleteExperience_EvictsLinkedHotels(t *testing.T) {
	f := newHotelFixture(t)
	ctx := context.Background()
	linked, err := f.svc.CreateHotel(ctx, app.HotelInput{Name: ptr("Sea View"), Tags: []int64{f.beach, f.surfing}})
	if err != nil {
		t.Fatal(err)
	}
	other, err := f.svc.CreateHotel(ctx, app.HotelInput{Name: ptr("Hill Top"), Tags: []int64{f.surfing}})
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{linked.ID, other.ID} {
		if _, err := f.svc.GetHotel(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := f.cache.store["hotel:"+itoa(other.ID)]; !ok {
		t.Fatal("detail not cached")
	}

	if err := f.svc.DeleteExperience(ctx, f.beach); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := f.svc.GetHotel(ctx, linked.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != f.surfing {
		t.Fatalf("detail still lists deleted tag: %+v", got.Tags)
	}
	if _, ok := f.cache.store["hotel:"+itoa(other.ID)]; !ok {
		t.Fatal("unlinked hotel should stay cached")
	}
	if err := f.svc.DeleteExperience(ctx, f.beach); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestUpdateHotel_Missing(t *testing.T) {
	f := newHotelFixture(t)
	_, err := f.svc.UpdateHotel(context.Background(), 404, app.HotelInput{Name: ptr("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAddReservationItem_PricePrecision(t *testing.T) {
	f := newHotelFixture(t)
	ctx := context.Background()
	h, _ := f.svc.CreateHotel(ctx, app.HotelInput{Name: ptr("Sea View")})

	bad := json.Number("12.505")
	_, err := f.svc.AddReservationItem(ctx, h.ID, app.ReservationItemInput{PriceUSD: &bad})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["priceinfo_usd"]) == 0 {
		t.Fatalf("want priceinfo_usd error, got %v", err)
	}

	big := json.Number("123456789")
	_, err = f.svc.AddReservationItem(ctx, h.ID, app.ReservationItemInput{PriceLKR: &big})
	if !errors.As(err, &verr) || len(verr.Fields["priceinfo_lkr"]) == 0 {
		t.Fatalf("want priceinfo_lkr error, got %v", err)
	}
}

func TestDeleteHotel_ProtectedByChildren(t *testing.T) {
	f := newHotelFixture(t)
	ctx := context.Background()
	h, _ := f.svc.CreateHotel(ctx, app.HotelInput{Name: ptr("Sea View")})
	a, err := f.svc.AddAmenity(ctx, h.ID, app.AmenityInput{ItemName: ptr("Pool")})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteHotel(ctx, h.ID); !errors.Is(err, domain.ErrReferenced) {
		t.Fatalf("want ErrReferenced, got %v", err)
	}
	if err := f.svc.DeleteAmenity(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteHotel(ctx, h.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetHotel(ctx, h.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestFeatured_LimitAndCache(t *testing.T) {
	f := newHotelFixture(t)
	ctx := context.Background()
	for _, n := range []string{"A", "B", "C"} {
		if _, err := f.svc.CreateHotel(ctx, app.HotelInput{Name: ptr(n)}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := f.svc.Featured(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// the full list is cached, so a wider request is still served from it
	got, _ = f.svc.Featured(ctx, 0)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
