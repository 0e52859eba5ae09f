package domain

import "context"

type CatalogRepository interface {
	CreateCountry(ctx context.Context, c *Country) error
	GetCountry(ctx context.Context, id int64) (Country, error)
	FindCountryByCode(ctx context.Context, code string) (Country, error)
	ListCountries(ctx context.Context) ([]Country, error)
	DeleteCountry(ctx context.Context, id int64) error

	CreateCity(ctx context.Context, c *City) error
	GetCity(ctx context.Context, id int64) (City, error)
	FindCity(ctx context.Context, countryID int64, name string) (City, error)
	ListCities(ctx context.Context, countryID *int64) ([]City, error)
	DeleteCity(ctx context.Context, id int64) error

	CreateExperience(ctx context.Context, e *ExperienceTag) error
	GetExperience(ctx context.Context, id int64) (ExperienceTag, error)
	FindExperienceByLabel(ctx context.Context, label string) (ExperienceTag, error)
	ListExperiences(ctx context.Context) ([]ExperienceTag, error)
	DeleteExperience(ctx context.Context, id int64) error
}

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h *Hotel) error
	UpdateHotel(ctx context.Context, h *Hotel) error
	DeleteHotel(ctx context.Context, id int64) error
	AddReservationItem(ctx context.Context, it *ReservationItem) error
	DeleteReservationItem(ctx context.Context, id int64) (hotelID int64, err error)
	AddAmenity(ctx context.Context, a *Amenity) error
	DeleteAmenity(ctx context.Context, id int64) (hotelID int64, err error)
	AddImage(ctx context.Context, img *HotelImage) error
	DeleteImage(ctx context.Context, id int64) (hotelID int64, err error)

	// Read paths
	GetHotel(ctx context.Context, id int64) (HotelBundle, error)
	HotelExists(ctx context.Context, id int64) (bool, error)
	ReservationItemExists(ctx context.Context, id int64) (bool, error)
	ListHotels(ctx context.Context, q HotelsQuery) ([]Hotel, error)
	ListAmenities(ctx context.Context, hotelID int64) ([]Amenity, error)
}

type BookingRepository interface {
	CreateGuest(ctx context.Context, g *Guest) error
	UpdateGuest(ctx context.Context, g *Guest) error
	GetGuest(ctx context.Context, id int64) (Guest, error)
	ListGuests(ctx context.Context, pg PageQuery) ([]Guest, error)
	DeleteGuest(ctx context.Context, id int64) error

	CreateStatus(ctx context.Context, s *BookingStatus) error
	ListStatuses(ctx context.Context) ([]BookingStatus, error)
	StatusExists(ctx context.Context, id int64) (bool, error)
	DeleteStatus(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, b *Booking) error
	UpdateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookings(ctx context.Context, pg PageQuery) ([]Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// HotelsQuery filters hotel listings. Hotels linked to any of TagIDs match.
type HotelsQuery struct {
	TagIDs []int64
	Name   *string
	CityID *int64
	Limit  int
}

type PageQuery struct {
	Limit  int
	Offset int
}

// FeedClient reads hotel payloads from the external catalogue feed.
type FeedClient interface {
	ListHotelIDs(ctx context.Context) ([]int64, error)
	GetHotel(ctx context.Context, id int64) (map[string]any, error)
}
