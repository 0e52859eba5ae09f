package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nomad_hotel/internal/app"
	"nomad_hotel/internal/domain"
	"nomad_hotel/internal/storage/memory"
)

type fakeFeed struct {
	hotels map[int64]map[string]any
}

func (f *fakeFeed) ListHotelIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(f.hotels))
	for id := range f.hotels {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeFeed) GetHotel(ctx context.Context, id int64) (map[string]any, error) {
	p, ok := f.hotels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func feedPayload() map[string]any {
	return map[string]any{
		"hotel_name": "Sea View",
		"address": map[string]any{
			"street":       "1 Beach Rd",
			"city":         "Galle",
			"country_code": "lk",
			"country_name": "Sri Lanka",
		},
		"experiences": []any{"Beach", "Surfing"},
		"facilities":  []any{"Pool", map[string]any{"name": "Spa"}},
		"photos":      []any{map[string]any{"url": "https://img/1.jpg"}, "https://img/2.jpg"},
		"rooms": []any{
			map[string]any{"room_name": "Double", "price_usd": 120.5},
			map[string]any{"room_name": "Suite", "priceinfo_lkr": "45000,00"},
		},
	}
}

func newImporter(feed *fakeFeed) (*memory.Store, *app.HotelService, *app.ImportService) {
	st := memory.New()
	hotels := app.NewHotelService(st, st, &fakeCache{}, time.Minute)
	return st, hotels, app.NewImportService(feed, app.NewCatalogService(st), hotels)
}

func TestImportHotel_CreatesCatalogueAndChildren(t *testing.T) {
	ctx := context.Background()
	st, hotels, imp := newImporter(&fakeFeed{hotels: map[int64]map[string]any{1: feedPayload()}})

	ok, err := imp.ImportHotel(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("import = %v, %v", ok, err)
	}

	found, err := hotels.Search(ctx, nil, 0)
	if err != nil || len(found) != 1 {
		t.Fatalf("hotels = %d, %v", len(found), err)
	}
	h, err := hotels.GetHotel(ctx, found[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if h.Country == nil || h.Country.Code != "LK" {
		t.Fatalf("country = %+v", h.Country)
	}
	if h.City == nil || *h.City.Name != "Galle" {
		t.Fatalf("city = %+v", h.City)
	}
	if len(h.Tags) != 2 || len(h.Images) != 2 || len(h.Items) != 2 {
		t.Fatalf("tags=%d images=%d items=%d", len(h.Tags), len(h.Images), len(h.Items))
	}
	if h.Items[0].PriceUSD == nil || *h.Items[0].PriceUSD != "120.50" {
		t.Fatalf("usd = %v", h.Items[0].PriceUSD)
	}
	if h.Items[1].PriceLKR == nil || *h.Items[1].PriceLKR != "45000.00" {
		t.Fatalf("lkr = %v", h.Items[1].PriceLKR)
	}
	amen, _ := hotels.ListAmenities(ctx, h.ID)
	if len(amen) != 2 {
		t.Fatalf("amenities = %d, want 2", len(amen))
	}
	countries, _ := st.ListCountries(ctx)
	cities, _ := st.ListCities(ctx, nil)
	tags, _ := st.ListExperiences(ctx)
	if len(countries) != 1 || len(cities) != 1 || len(tags) != 2 {
		t.Fatalf("catalogue rows: %d countries, %d cities, %d tags", len(countries), len(cities), len(tags))
	}
}

func TestImportHotel_SecondRunSkips(t *testing.T) {
	ctx := context.Background()
	st, _, imp := newImporter(&fakeFeed{hotels: map[int64]map[string]any{1: feedPayload()}})
	if ok, err := imp.ImportHotel(ctx, 1); err != nil || !ok {
		t.Fatalf("first import = %v, %v", ok, err)
	}
	ok, err := imp.ImportHotel(ctx, 1)
	if err != nil || ok {
		t.Fatalf("second import = %v, %v; want skipped", ok, err)
	}
	hotels, _ := st.ListHotels(ctx, domain.HotelsQuery{})
	countries, _ := st.ListCountries(ctx)
	if len(hotels) != 1 || len(countries) != 1 {
		t.Fatalf("hotels=%d countries=%d", len(hotels), len(countries))
	}
}

func TestImportHotel_MissingAndNameless(t *testing.T) {
	ctx := context.Background()
	_, _, imp := newImporter(&fakeFeed{hotels: map[int64]map[string]any{
		2: {"address": map[string]any{"city": "Galle"}},
	}})
	if ok, err := imp.ImportHotel(ctx, 99); err != nil || ok {
		t.Fatalf("missing = %v, %v; want skipped without error", ok, err)
	}
	_, err := imp.ImportHotel(ctx, 2)
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("nameless: want ErrInvalid, got %v", err)
	}
}

func TestImportHotel_BadRoomRejectsWholeHotel(t *testing.T) {
	ctx := context.Background()
	p := feedPayload()
	p["rooms"] = []any{
		map[string]any{"room_name": "Double", "price_usd": 120.5},
		map[string]any{"room_name": "Palace", "price_usd": "1234567890.12"},
	}
	feed := &fakeFeed{hotels: map[int64]map[string]any{1: p}}
	st, _, imp := newImporter(feed)

	ok, err := imp.ImportHotel(ctx, 1)
	var verr *domain.ValidationError
	if ok || !errors.As(err, &verr) || len(verr.Fields["priceinfo_usd"]) == 0 {
		t.Fatalf("import = %v, %v; want rejected on priceinfo_usd", ok, err)
	}
	hotels, _ := st.ListHotels(ctx, domain.HotelsQuery{})
	countries, _ := st.ListCountries(ctx)
	if len(hotels) != 0 || len(countries) != 0 {
		t.Fatalf("wrote hotels=%d countries=%d before rejecting", len(hotels), len(countries))
	}

	// once the feed is corrected the hotel imports in full
	feed.hotels[1] = feedPayload()
	if ok, err := imp.ImportHotel(ctx, 1); err != nil || !ok {
		t.Fatalf("retry = %v, %v", ok, err)
	}
}

// imageFailStore accepts everything except images.
type imageFailStore struct{ *memory.Store }

func (imageFailStore) AddImage(ctx context.Context, img *domain.HotelImage) error {
	return errors.New("media store unavailable")
}

func TestImportHotel_ChildWriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	hotels := app.NewHotelService(imageFailStore{st}, st, &fakeCache{}, time.Minute)
	imp := app.NewImportService(&fakeFeed{hotels: map[int64]map[string]any{1: feedPayload()}}, app.NewCatalogService(st), hotels)

	ok, err := imp.ImportHotel(ctx, 1)
	if ok || err == nil {
		t.Fatalf("import = %v, %v; want failure", ok, err)
	}
	// the hotel can only be deleted once its rooms and amenities are gone
	left, _ := st.ListHotels(ctx, domain.HotelsQuery{})
	if len(left) != 0 {
		t.Fatalf("partial hotel left behind: %+v", left)
	}

	// nothing marks it as imported, so a later run tries again
	ok, err = imp.ImportHotel(ctx, 1)
	if ok || err == nil {
		t.Fatalf("second run = %v, %v; want another attempt", ok, err)
	}
}
