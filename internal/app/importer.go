package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"nomad_hotel/internal/domain"
)

// ImportService seeds the catalogue from the external hotel feed. Hotels go through
// the same validated write path as API writes.
type ImportService struct {
	feed    domain.FeedClient
	catalog *CatalogService
	hotels  *HotelService

	// serialises find-or-create of countries, cities and tags across workers
	mu sync.Mutex
}

func NewImportService(f domain.FeedClient, c *CatalogService, h *HotelService) *ImportService {
	return &ImportService{feed: f, catalog: c, hotels: h}
}

// ImportHotel fetches one feed hotel and stores it. It reports false when the hotel
// was skipped: missing from the feed, or already present under the same name and city.
func (s *ImportService) ImportHotel(ctx context.Context, id int64) (bool, error) {
	p, err := s.feed.GetHotel(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Int64("feed_id", id).Msg("feed hotel not found")
			return false, nil
		}
		return false, err
	}
	fh := mapFeedHotel(p)
	if fh.Name == nil {
		return false, domain.NewValidationError("name", "feed hotel has no name")
	}

	if err := validateFeedHotel(fh); err != nil {
		return false, fmt.Errorf("feed hotel %d: %w", id, err)
	}

	in, err := s.resolve(ctx, fh)
	if err != nil {
		return false, fmt.Errorf("resolve feed hotel %d: %w", id, err)
	}

	existing, err := s.hotels.hotels.ListHotels(ctx, domain.HotelsQuery{Name: fh.Name, CityID: in.City, Limit: 1})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		log.Info().Int64("feed_id", id).Int64("hotel_id", existing[0].ID).Msg("hotel already imported")
		return false, nil
	}

	h, err := s.hotels.CreateHotel(ctx, in)
	if err != nil {
		return false, fmt.Errorf("create feed hotel %d: %w", id, err)
	}

	if err := s.addChildren(ctx, h.ID, fh); err != nil {
		return false, fmt.Errorf("feed hotel %d: %w", id, err)
	}
	return true, nil
}

// validateFeedHotel checks the hotel fields and every child record before anything
// is written, so one bad room rejects the whole hotel.
func validateFeedHotel(fh feedHotel) error {
	hotel := HotelInput{Name: fh.Name, Description: fh.Description, Street: fh.Street, Email: fh.Email, Contact: fh.Phone}
	hotel.normalize()
	if err := validateInput(hotel); err != nil {
		return err
	}
	for i, room := range fh.Rooms {
		room.normalize()
		if err := validateInput(room); err != nil {
			return fmt.Errorf("room %d: %w", i, err)
		}
	}
	for i, name := range fh.Amenities {
		a := AmenityInput{ItemName: &name}
		a.normalize()
		if err := validateInput(a); err != nil {
			return fmt.Errorf("amenity %d: %w", i, err)
		}
	}
	for i, ref := range fh.Images {
		img := ImageInput{Image: ref}
		img.normalize()
		if err := validateInput(img); err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
	}
	return nil
}

// addChildren stores the hotel's rooms, amenities and images. On failure the hotel
// and whatever was added are removed again so a later run imports it from scratch.
func (s *ImportService) addChildren(ctx context.Context, hotelID int64, fh feedHotel) error {
	var undo []func() error
	fail := func(err error) error {
		for i := len(undo) - 1; i >= 0; i-- {
			if uerr := undo[i](); uerr != nil {
				log.Error().Err(uerr).Int64("hotel_id", hotelID).Msg("rollback of partial import failed")
				return errors.Join(err, uerr)
			}
		}
		log.Warn().Err(err).Int64("hotel_id", hotelID).Msg("partial import rolled back")
		return err
	}
	undo = append(undo, func() error { return s.hotels.DeleteHotel(ctx, hotelID) })

	for _, room := range fh.Rooms {
		it, err := s.hotels.AddReservationItem(ctx, hotelID, room)
		if err != nil {
			return fail(fmt.Errorf("reservation item: %w", err))
		}
		undo = append(undo, func() error { return s.hotels.DeleteReservationItem(ctx, it.ID) })
	}
	for _, name := range fh.Amenities {
		a, err := s.hotels.AddAmenity(ctx, hotelID, AmenityInput{ItemName: &name})
		if err != nil {
			return fail(fmt.Errorf("amenity: %w", err))
		}
		undo = append(undo, func() error { return s.hotels.DeleteAmenity(ctx, a.ID) })
	}
	for _, ref := range fh.Images {
		img, err := s.hotels.AddImage(ctx, hotelID, ImageInput{Image: ref})
		if err != nil {
			return fail(fmt.Errorf("image: %w", err))
		}
		undo = append(undo, func() error { return s.hotels.DeleteImage(ctx, img.ID) })
	}
	return nil
}

// resolve maps the feed's natural keys (country code, city name, tag labels) onto
// catalogue ids, creating missing records.
func (s *ImportService) resolve(ctx context.Context, fh feedHotel) (HotelInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := HotelInput{
		Name:        fh.Name,
		Description: fh.Description,
		Street:      fh.Street,
		Email:       fh.Email,
		Contact:     fh.Phone,
	}
	if fh.CountryCode != "" {
		countryID, err := s.ensureCountry(ctx, fh.CountryCode, fh.CountryName)
		if err != nil {
			return HotelInput{}, err
		}
		in.Country = &countryID
		if fh.CityName != "" {
			cityID, err := s.ensureCity(ctx, countryID, fh.CityName)
			if err != nil {
				return HotelInput{}, err
			}
			in.City = &cityID
		}
	}
	for _, label := range fh.Experiences {
		tagID, err := s.ensureExperience(ctx, label)
		if err != nil {
			return HotelInput{}, err
		}
		in.Tags = append(in.Tags, tagID)
	}
	return in, nil
}

func (s *ImportService) ensureCountry(ctx context.Context, code, name string) (int64, error) {
	c, err := s.catalog.repo.FindCountryByCode(ctx, code)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	if name == "" {
		name = code
	}
	cv, err := s.catalog.CreateCountry(ctx, CountryInput{Name: name, Code: code})
	if err != nil {
		return 0, err
	}
	return cv.ID, nil
}

func (s *ImportService) ensureCity(ctx context.Context, countryID int64, name string) (int64, error) {
	c, err := s.catalog.repo.FindCity(ctx, countryID, name)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	cv, err := s.catalog.CreateCity(ctx, CityInput{Country: &countryID, Name: &name})
	if err != nil {
		return 0, err
	}
	return cv.ID, nil
}

func (s *ImportService) ensureExperience(ctx context.Context, label string) (int64, error) {
	e, err := s.catalog.repo.FindExperienceByLabel(ctx, label)
	if err == nil {
		return e.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	ev, err := s.catalog.CreateExperience(ctx, ExperienceInput{Label: &label})
	if err != nil {
		return 0, err
	}
	return ev.ID, nil
}

// ListFeedIDs returns the hotel ids the feed currently publishes.
func (s *ImportService) ListFeedIDs(ctx context.Context) ([]int64, error) {
	return s.feed.ListHotelIDs(ctx)
}
