package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nomad_hotel/internal/domain"
)

const (
	featuredKey = "hotels:featured"
	// featured listings are cached at this size and sliced per request
	FeaturedMax = 50
)

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

type HotelService struct {
	hotels   domain.HotelRepository
	catalog  domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewHotelService(h domain.HotelRepository, c domain.CatalogRepository, cache domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{hotels: h, catalog: c, cache: cache, cacheTTL: ttl}
}

/********** write paths **********/

func (s *HotelService) CreateHotel(ctx context.Context, in HotelInput) (HotelDetail, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return HotelDetail{}, err
	}
	h := in.entity(0)
	if err := s.prepare(ctx, &h); err != nil {
		return HotelDetail{}, err
	}
	if err := s.hotels.CreateHotel(ctx, &h); err != nil {
		return HotelDetail{}, err
	}
	s.evict(ctx, h.ID)
	return s.saved(ctx, h.ID)
}

// UpdateHotel replaces every writable field of the hotel, tag links included.
func (s *HotelService) UpdateHotel(ctx context.Context, id int64, in HotelInput) (HotelDetail, error) {
	if err := s.ensureHotel(ctx, id); err != nil {
		return HotelDetail{}, err
	}
	in.normalize()
	if err := validateInput(in); err != nil {
		return HotelDetail{}, err
	}
	h := in.entity(id)
	if err := s.prepare(ctx, &h); err != nil {
		return HotelDetail{}, err
	}
	if err := s.hotels.UpdateHotel(ctx, &h); err != nil {
		return HotelDetail{}, err
	}
	s.evict(ctx, id)
	return s.saved(ctx, id)
}

func (s *HotelService) DeleteHotel(ctx context.Context, id int64) error {
	if err := s.hotels.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	log.Info().Int64("id", id).Msg("hotel deleted")
	return nil
}

// prepare resolves the hotel's references and applies the location rule. Nothing is
// written; every dangling reference is reported together.
func (s *HotelService) prepare(ctx context.Context, h *domain.Hotel) error {
	verr := &domain.ValidationError{}

	var city *domain.City
	if h.CityID != nil {
		c, err := s.catalog.GetCity(ctx, *h.CityID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			verr.Add("location_city", pkMessage(*h.CityID))
		case err != nil:
			return err
		default:
			city = &c
		}
	}
	if h.CountryID != nil {
		_, err := s.catalog.GetCountry(ctx, *h.CountryID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			verr.Add("location_country", pkMessage(*h.CountryID))
		case err != nil:
			return err
		}
	}
	for _, id := range h.TagIDs {
		_, err := s.catalog.GetExperience(ctx, id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			verr.Add("experience_tags", pkMessage(id))
		case err != nil:
			return err
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	return h.ResolveLocation(city)
}

func (s *HotelService) saved(ctx context.Context, id int64) (HotelDetail, error) {
	b, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return HotelDetail{}, err
	}
	log.Info().
		Int64("id", id).
		Str("location", b.Hotel.Location()).
		Str("experiences", b.Hotel.ExperiencesList()).
		Msg("hotel saved")
	return hotelDetail(b), nil
}

func (s *HotelService) AddReservationItem(ctx context.Context, hotelID int64, in ReservationItemInput) (ReservationItemView, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return ReservationItemView{}, err
	}
	if err := s.ensureHotel(ctx, hotelID); err != nil {
		return ReservationItemView{}, err
	}
	it := domain.ReservationItem{
		HotelID:  hotelID,
		Label:    in.Label,
		PriceUSD: parsePrice(in.PriceUSD),
		PriceLKR: parsePrice(in.PriceLKR),
	}
	if err := s.hotels.AddReservationItem(ctx, &it); err != nil {
		return ReservationItemView{}, err
	}
	s.evict(ctx, hotelID)
	return reservationItemView(it), nil
}

func (s *HotelService) DeleteReservationItem(ctx context.Context, id int64) error {
	hotelID, err := s.hotels.DeleteReservationItem(ctx, id)
	if err != nil {
		return err
	}
	s.evict(ctx, hotelID)
	return nil
}

func (s *HotelService) AddAmenity(ctx context.Context, hotelID int64, in AmenityInput) (AmenityView, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return AmenityView{}, err
	}
	if err := s.ensureHotel(ctx, hotelID); err != nil {
		return AmenityView{}, err
	}
	a := domain.Amenity{HotelID: hotelID, ItemName: in.ItemName}
	if err := s.hotels.AddAmenity(ctx, &a); err != nil {
		return AmenityView{}, err
	}
	return amenityView(a), nil
}

func (s *HotelService) DeleteAmenity(ctx context.Context, id int64) error {
	_, err := s.hotels.DeleteAmenity(ctx, id)
	return err
}

func (s *HotelService) AddImage(ctx context.Context, hotelID int64, in ImageInput) (ImageView, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return ImageView{}, err
	}
	if err := s.ensureHotel(ctx, hotelID); err != nil {
		return ImageView{}, err
	}
	img := domain.HotelImage{HotelID: hotelID, Image: &in.Image}
	if err := s.hotels.AddImage(ctx, &img); err != nil {
		return ImageView{}, err
	}
	s.evict(ctx, hotelID)
	return imageView(img), nil
}

func (s *HotelService) DeleteImage(ctx context.Context, id int64) error {
	hotelID, err := s.hotels.DeleteImage(ctx, id)
	if err != nil {
		return err
	}
	s.evict(ctx, hotelID)
	return nil
}

// DeleteExperience removes a tag together with its hotel links. Hotels are kept,
// but their cached details embed the tag and are evicted.
func (s *HotelService) DeleteExperience(ctx context.Context, id int64) error {
	linked, err := s.hotels.ListHotels(ctx, domain.HotelsQuery{TagIDs: []int64{id}})
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteExperience(ctx, id); err != nil {
		return err
	}
	for _, h := range linked {
		s.evict(ctx, h.ID)
	}
	log.Info().Int64("experience_id", id).Int("hotels", len(linked)).Msg("experience deleted")
	return nil
}

/********** read paths **********/

func (s *HotelService) GetHotel(ctx context.Context, id int64) (HotelDetail, error) {
	key := hotelKey(id)
	var hv HotelDetail
	if s.cacheGet(ctx, key, &hv) {
		return hv, nil
	}
	b, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return HotelDetail{}, err
	}
	hv = hotelDetail(b)
	s.cacheSet(ctx, key, hv)
	return hv, nil
}

// Featured returns the lightweight listing: no tags, items or images.
func (s *HotelService) Featured(ctx context.Context, limit int) ([]FeaturedHotel, error) {
	if limit <= 0 || limit > FeaturedMax {
		limit = FeaturedMax
	}
	var all []FeaturedHotel
	if !s.cacheGet(ctx, featuredKey, &all) {
		hs, err := s.hotels.ListHotels(ctx, domain.HotelsQuery{Limit: FeaturedMax})
		if err != nil {
			return nil, err
		}
		all = make([]FeaturedHotel, 0, len(hs))
		for _, h := range hs {
			all = append(all, featuredHotel(h))
		}
		s.cacheSet(ctx, featuredKey, all)
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Search lists hotels linked to any of tagIDs, each with its tags. No tags lists all hotels.
func (s *HotelService) Search(ctx context.Context, tagIDs []int64, limit int) ([]SearchHotel, error) {
	if limit <= 0 || limit > FeaturedMax {
		limit = FeaturedMax
	}
	hs, err := s.hotels.ListHotels(ctx, domain.HotelsQuery{TagIDs: dedupe(tagIDs), Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]SearchHotel, 0, len(hs))
	for _, h := range hs {
		out = append(out, searchHotel(h))
	}
	return out, nil
}

func (s *HotelService) ListAmenities(ctx context.Context, hotelID int64) ([]AmenityView, error) {
	if err := s.ensureHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	as, err := s.hotels.ListAmenities(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	out := make([]AmenityView, 0, len(as))
	for _, a := range as {
		out = append(out, amenityView(a))
	}
	return out, nil
}

/********** helpers **********/

func (s *HotelService) ensureHotel(ctx context.Context, id int64) error {
	ok, err := s.hotels.HotelExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *HotelService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *HotelService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// evict drops cached views that embed the hotel.
func (s *HotelService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	_ = s.cache.Del(ctx, featuredKey)
}
