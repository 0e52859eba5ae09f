package domain

import "time"

type Guest struct {
	ID        int64
	Name      *string
	Email     *string
	Contact   *string
	CountryID *int64
}

// BookingStatus is a lookup row: a numeric code and its label.
type BookingStatus struct {
	ID     int64
	Code   *int
	Status *string
}

type Booking struct {
	ID                int64
	GuestID           *int64
	ReservationItemID *int64
	CheckIn           *time.Time
	CheckOut          *time.Time
	BookingType       *string
	IsPaid            *bool
	StatusID          *int64
}

// Validate checks rules that span fields of the booking itself.
func (b Booking) Validate() error {
	if b.CheckIn != nil && b.CheckOut != nil && !b.CheckOut.After(*b.CheckIn) {
		return NewValidationError("checkOut", "check-out must be after check-in")
	}
	return nil
}
