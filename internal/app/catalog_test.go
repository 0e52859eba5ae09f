package app_test

import (
	"context"
	"errors"
	"testing"

	"nomad_hotel/internal/app"
	"nomad_hotel/internal/domain"
	"nomad_hotel/internal/storage/memory"
)

func TestCatalog_CountryRules(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := app.NewCatalogService(st)

	_, err := svc.CreateCountry(ctx, app.CountryInput{Name: " ", Code: "LK"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["country_name"]) == 0 {
		t.Fatalf("want country_name required, got %v", err)
	}

	lk, err := svc.CreateCountry(ctx, app.CountryInput{Name: "Sri Lanka", Code: "LK"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateCountry(ctx, app.CountryInput{Name: "Lanka", Code: "LK"}); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	if _, err := svc.CreateCity(ctx, app.CityInput{Country: &lk.ID, Name: ptr("Kandy")}); err != nil {
		t.Fatal(err)
	}
	err = svc.DeleteCountry(ctx, lk.ID)
	var rerr *domain.ReferenceError
	if !errors.As(err, &rerr) || rerr.Dependent != "cities" {
		t.Fatalf("want ReferenceError on cities, got %v", err)
	}
}

func TestCatalog_CityNeedsExistingCountry(t *testing.T) {
	svc := app.NewCatalogService(memory.New())
	_, err := svc.CreateCity(context.Background(), app.CityInput{Country: ptr[int64](42), Name: ptr("Nowhere")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["country"]) == 0 {
		t.Fatalf("want country error, got %v", err)
	}
}

func TestCatalog_ListCitiesByCountry(t *testing.T) {
	ctx := context.Background()
	svc := app.NewCatalogService(memory.New())
	lk, _ := svc.CreateCountry(ctx, app.CountryInput{Name: "Sri Lanka", Code: "LK"})
	fr, _ := svc.CreateCountry(ctx, app.CountryInput{Name: "France", Code: "FR"})
	_, _ = svc.CreateCity(ctx, app.CityInput{Country: &lk.ID, Name: ptr("Galle")})
	_, _ = svc.CreateCity(ctx, app.CityInput{Country: &fr.ID, Name: ptr("Nice")})

	cities, err := svc.ListCities(ctx, &fr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cities) != 1 || *cities[0].Name != "Nice" {
		t.Fatalf("cities = %+v", cities)
	}
	all, _ := svc.ListCities(ctx, nil)
	if len(all) != 2 {
		t.Fatalf("all cities = %d, want 2", len(all))
	}
}

func TestCatalog_ExperienceCoverImageLength(t *testing.T) {
	svc := app.NewCatalogService(memory.New())
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	_, err := svc.CreateExperience(context.Background(), app.ExperienceInput{Label: ptr("Beach"), CoverImage: ptr(string(long))})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["cover_image"]) == 0 {
		t.Fatalf("want cover_image error, got %v", err)
	}
}
