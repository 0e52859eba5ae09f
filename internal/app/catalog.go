package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"nomad_hotel/internal/domain"
)

// CatalogService manages the lookup records hotels hang off: countries, cities
// and experience tags.
type CatalogService struct {
	repo domain.CatalogRepository
}

func NewCatalogService(r domain.CatalogRepository) *CatalogService {
	return &CatalogService{repo: r}
}

func (s *CatalogService) CreateCountry(ctx context.Context, in CountryInput) (CountryView, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return CountryView{}, err
	}
	c := domain.Country{Name: in.Name, Code: in.Code}
	if err := s.repo.CreateCountry(ctx, &c); err != nil {
		return CountryView{}, err
	}
	log.Info().Int64("id", c.ID).Str("code", c.Code).Msg("country created")
	return countryView(c), nil
}

func (s *CatalogService) GetCountry(ctx context.Context, id int64) (CountryView, error) {
	c, err := s.repo.GetCountry(ctx, id)
	if err != nil {
		return CountryView{}, err
	}
	return countryView(c), nil
}

func (s *CatalogService) ListCountries(ctx context.Context) ([]CountryView, error) {
	cs, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CountryView, 0, len(cs))
	for _, c := range cs {
		out = append(out, countryView(c))
	}
	return out, nil
}

func (s *CatalogService) DeleteCountry(ctx context.Context, id int64) error {
	return s.repo.DeleteCountry(ctx, id)
}

func (s *CatalogService) CreateCity(ctx context.Context, in CityInput) (CityView, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return CityView{}, err
	}
	if in.Country != nil {
		if err := s.countryExists(ctx, "country", *in.Country); err != nil {
			return CityView{}, err
		}
	}
	c := domain.City{CountryID: in.Country, Name: in.Name}
	if err := s.repo.CreateCity(ctx, &c); err != nil {
		return CityView{}, err
	}
	log.Info().Int64("id", c.ID).Msg("city created")
	return cityView(c), nil
}

func (s *CatalogService) GetCity(ctx context.Context, id int64) (CityView, error) {
	c, err := s.repo.GetCity(ctx, id)
	if err != nil {
		return CityView{}, err
	}
	return cityView(c), nil
}

func (s *CatalogService) ListCities(ctx context.Context, countryID *int64) ([]CityView, error) {
	cs, err := s.repo.ListCities(ctx, countryID)
	if err != nil {
		return nil, err
	}
	out := make([]CityView, 0, len(cs))
	for _, c := range cs {
		out = append(out, cityView(c))
	}
	return out, nil
}

func (s *CatalogService) DeleteCity(ctx context.Context, id int64) error {
	return s.repo.DeleteCity(ctx, id)
}

func (s *CatalogService) CreateExperience(ctx context.Context, in ExperienceInput) (ExperienceView, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return ExperienceView{}, err
	}
	e := domain.ExperienceTag{Label: in.Label, Description: in.Description, CoverImage: in.CoverImage}
	if err := s.repo.CreateExperience(ctx, &e); err != nil {
		return ExperienceView{}, err
	}
	return experienceView(e), nil
}

func (s *CatalogService) GetExperience(ctx context.Context, id int64) (ExperienceView, error) {
	e, err := s.repo.GetExperience(ctx, id)
	if err != nil {
		return ExperienceView{}, err
	}
	return experienceView(e), nil
}

func (s *CatalogService) ListExperiences(ctx context.Context) ([]ExperienceView, error) {
	es, err := s.repo.ListExperiences(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ExperienceView, 0, len(es))
	for _, e := range es {
		out = append(out, experienceView(e))
	}
	return out, nil
}

// countryExists turns a dangling country reference into a field error on field.
func (s *CatalogService) countryExists(ctx context.Context, field string, id int64) error {
	_, err := s.repo.GetCountry(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return missingPK(field, id)
	}
	return err
}
