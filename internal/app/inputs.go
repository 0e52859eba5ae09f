package app

import (
	"encoding/json"
	"strings"
	"time"

	"nomad_hotel/internal/domain"
)

// Write-side representations. Field names match the read views so a client can
// round-trip a record; foreign keys are raw identifiers.

type CountryInput struct {
	Name string `json:"country_name" validate:"required,max=200"`
	Code string `json:"country_code" validate:"required,max=200"`
}

func (in *CountryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
}

type CityInput struct {
	Country *int64  `json:"country" validate:"omitempty,gt=0"`
	Name    *string `json:"city_name" validate:"omitempty,max=200"`
}

func (in *CityInput) normalize() { in.Name = blank(in.Name) }

type ExperienceInput struct {
	Label       *string `json:"exptag" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image" validate:"omitempty,max=100"`
}

func (in *ExperienceInput) normalize() {
	in.Label = blank(in.Label)
	in.Description = blank(in.Description)
	in.CoverImage = blank(in.CoverImage)
}

type HotelInput struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Street      *string `json:"location_street" validate:"omitempty,max=200"`
	City        *int64  `json:"location_city" validate:"omitempty,gt=0"`
	Country     *int64  `json:"location_country" validate:"omitempty,gt=0"`
	Email       *string `json:"email" validate:"omitempty,max=254,email"`
	Contact     *string `json:"contact_number" validate:"omitempty,max=200"`
	Tags        []int64 `json:"experience_tags" validate:"omitempty,dive,gt=0"`
}

func (in *HotelInput) normalize() {
	in.Name = blank(in.Name)
	in.Description = blank(in.Description)
	in.Street = blank(in.Street)
	in.Email = blank(in.Email)
	in.Contact = blank(in.Contact)
}

func (in HotelInput) entity(id int64) domain.Hotel {
	return domain.Hotel{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Street:      in.Street,
		Email:       in.Email,
		Contact:     in.Contact,
		CityID:      in.City,
		CountryID:   in.Country,
		TagIDs:      dedupe(in.Tags),
	}
}

type ReservationItemInput struct {
	Label    *string      `json:"reservation_item" validate:"omitempty,max=200"`
	PriceUSD *json.Number `json:"priceinfo_usd" validate:"omitempty,price"`
	PriceLKR *json.Number `json:"priceinfo_lkr" validate:"omitempty,price"`
}

func (in *ReservationItemInput) normalize() { in.Label = blank(in.Label) }

type AmenityInput struct {
	ItemName *string `json:"item_name" validate:"omitempty,max=200"`
}

func (in *AmenityInput) normalize() { in.ItemName = blank(in.ItemName) }

type ImageInput struct {
	Image string `json:"image" validate:"required,max=200"`
}

func (in *ImageInput) normalize() { in.Image = strings.TrimSpace(in.Image) }

type GuestInput struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Email   *string `json:"email" validate:"omitempty,max=254,email"`
	Contact *string `json:"contactNumber" validate:"omitempty,max=200"`
	Country *int64  `json:"country" validate:"omitempty,gt=0"`
}

func (in *GuestInput) normalize() {
	in.Name = blank(in.Name)
	in.Email = blank(in.Email)
	in.Contact = blank(in.Contact)
}

type BookingStatusInput struct {
	Code   *int    `json:"statusId"`
	Status *string `json:"status" validate:"omitempty,max=200"`
}

func (in *BookingStatusInput) normalize() { in.Status = blank(in.Status) }

type BookingInput struct {
	Guest           *int64     `json:"guest" validate:"omitempty,gt=0"`
	ReservationItem *int64     `json:"reservationItem" validate:"omitempty,gt=0"`
	CheckIn         *time.Time `json:"checkIn"`
	CheckOut        *time.Time `json:"checkOut"`
	BookingType     *string    `json:"booking_type" validate:"omitempty,max=200"`
	IsPaid          *bool      `json:"is_paid"`
	Status          *int64     `json:"status" validate:"omitempty,gt=0"`
}

func (in *BookingInput) normalize() { in.BookingType = blank(in.BookingType) }

func (in BookingInput) entity(id int64) domain.Booking {
	return domain.Booking{
		ID:                id,
		GuestID:           in.Guest,
		ReservationItemID: in.ReservationItem,
		CheckIn:           in.CheckIn,
		CheckOut:          in.CheckOut,
		BookingType:       in.BookingType,
		IsPaid:            in.IsPaid,
		StatusID:          in.Status,
	}
}

// dedupe keeps the first occurrence of each id, preserving order.
func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
