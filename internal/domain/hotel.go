package domain

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MsgLocationMismatch is reported when a hotel's city belongs to another country.
const MsgLocationMismatch = "country and city are mismatched"

type Hotel struct {
	ID          int64
	Name        *string
	Description *string
	Street      *string
	Email       *string
	Contact     *string
	CityID      *int64
	CountryID   *int64
	TagIDs      []int64 // association order

	// Resolved on reads.
	City    *City
	Country *Country
	Tags    []ExperienceTag
}

// ResolveLocation runs before every hotel write. city is the record behind h.CityID
// (nil when no city is set). A missing country is derived from the city; an explicit
// country must match the city's own country.
func (h *Hotel) ResolveLocation(city *City) error {
	if city == nil {
		return nil
	}
	if h.CountryID == nil {
		if city.CountryID != nil {
			id := *city.CountryID
			h.CountryID = &id
		}
		return nil
	}
	if city.CountryID == nil || *city.CountryID != *h.CountryID {
		return NewValidationError(NonFieldErrors, MsgLocationMismatch)
	}
	return nil
}

// Location renders "<street>, <city>, <country>", skipping parts that are not known.
func (h Hotel) Location() string {
	parts := make([]string, 0, 3)
	if h.Street != nil && strings.TrimSpace(*h.Street) != "" {
		parts = append(parts, strings.TrimSpace(*h.Street))
	}
	if h.City != nil && h.City.Name != nil && strings.TrimSpace(*h.City.Name) != "" {
		parts = append(parts, strings.TrimSpace(*h.City.Name))
	}
	if h.Country != nil && strings.TrimSpace(h.Country.Name) != "" {
		parts = append(parts, strings.TrimSpace(h.Country.Name))
	}
	return strings.Join(parts, ", ")
}

// ExperiencesList joins the tag labels with ", ".
func (h Hotel) ExperiencesList() string {
	labels := make([]string, 0, len(h.Tags))
	for _, t := range h.Tags {
		if t.Label == nil {
			labels = append(labels, "")
			continue
		}
		labels = append(labels, *t.Label)
	}
	return strings.Join(labels, ", ")
}

type ReservationItem struct {
	ID       int64
	HotelID  int64
	Label    *string
	PriceUSD decimal.NullDecimal
	PriceLKR decimal.NullDecimal
}

type Amenity struct {
	ID       int64
	HotelID  int64
	ItemName *string
}

type HotelImage struct {
	ID      int64
	HotelID int64
	Image   *string // opaque media reference
}

// HotelBundle is a hotel together with its owned collections, as read for the detail view.
type HotelBundle struct {
	Hotel     Hotel
	Items     []ReservationItem
	Amenities []Amenity
	Images    []HotelImage
}

// Persisted price format: DECIMAL(10,2).
const (
	PriceDigits = 10
	PriceScale  = 2
)

// ValidPrice reports whether d fits the persisted price column without rounding.
func ValidPrice(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -PriceScale {
		return false
	}
	digits := len(new(big.Int).Abs(d.Coefficient()).String())
	whole := digits + int(exp)
	return whole <= PriceDigits-PriceScale
}
