package app

import (
	"time"

	"github.com/shopspring/decimal"

	"nomad_hotel/internal/domain"
)

// Read models. Each view is a fixed projection of the underlying entity.

type CountryView struct {
	ID   int64  `json:"countryid"`
	Name string `json:"country_name"`
	Code string `json:"country_code"`
}

type CityView struct {
	ID      int64   `json:"cityid"`
	Country *int64  `json:"country"`
	Name    *string `json:"city_name"`
}

type ExperienceView struct {
	ID          int64   `json:"expid"`
	Label       *string `json:"exptag"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image"`
}

// ExperienceTagBrief is how tags are embedded inside hotel views.
type ExperienceTagBrief struct {
	ID    int64   `json:"expid"`
	Label *string `json:"exptag"`
}

type FeaturedHotel struct {
	ID          int64        `json:"hotelid"`
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Street      *string      `json:"location_street"`
	City        *CityView    `json:"location_city"`
	Country     *CountryView `json:"location_country"`
}

type SearchHotel struct {
	FeaturedHotel
	Tags []ExperienceTagBrief `json:"experience_tags"`
}

type HotelDetail struct {
	SearchHotel
	Items  []ReservationItemView `json:"hotel_reservation"`
	Images []string              `json:"hotel_image"`
}

type ReservationItemView struct {
	ID       int64   `json:"reservation_item_id"`
	Label    *string `json:"reservation_item"`
	PriceUSD *string `json:"priceinfo_usd"`
	PriceLKR *string `json:"priceinfo_lkr"`
}

type AmenityView struct {
	ID       int64   `json:"id"`
	Hotel    int64   `json:"hotel"`
	ItemName *string `json:"item_name"`
}

type ImageView struct {
	ID    int64   `json:"id"`
	Hotel int64   `json:"hotel"`
	Image *string `json:"image"`
}

type GuestView struct {
	ID      int64   `json:"guestid"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Contact *string `json:"contactNumber"`
	Country *int64  `json:"country"`
}

type BookingStatusView struct {
	ID     int64   `json:"id"`
	Code   *int    `json:"statusId"`
	Status *string `json:"status"`
}

type BookingView struct {
	ID              int64      `json:"bookingid"`
	Guest           *int64     `json:"guest"`
	ReservationItem *int64     `json:"reservationItem"`
	CheckIn         *time.Time `json:"checkIn"`
	CheckOut        *time.Time `json:"checkOut"`
	BookingType     *string    `json:"booking_type"`
	IsPaid          *bool      `json:"is_paid"`
	Status          *int64     `json:"status"`
}

/********** entity -> view **********/

func countryView(c domain.Country) CountryView {
	return CountryView{ID: c.ID, Name: c.Name, Code: c.Code}
}

func cityView(c domain.City) CityView {
	return CityView{ID: c.ID, Country: c.CountryID, Name: c.Name}
}

func experienceView(e domain.ExperienceTag) ExperienceView {
	return ExperienceView{ID: e.ID, Label: e.Label, Description: e.Description, CoverImage: e.CoverImage}
}

func featuredHotel(h domain.Hotel) FeaturedHotel {
	out := FeaturedHotel{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		Street:      h.Street,
	}
	if h.City != nil {
		cv := cityView(*h.City)
		out.City = &cv
	}
	if h.Country != nil {
		cv := countryView(*h.Country)
		out.Country = &cv
	}
	return out
}

func searchHotel(h domain.Hotel) SearchHotel {
	tags := make([]ExperienceTagBrief, 0, len(h.Tags))
	for _, t := range h.Tags {
		tags = append(tags, ExperienceTagBrief{ID: t.ID, Label: t.Label})
	}
	return SearchHotel{FeaturedHotel: featuredHotel(h), Tags: tags}
}

func hotelDetail(b domain.HotelBundle) HotelDetail {
	items := make([]ReservationItemView, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, reservationItemView(it))
	}
	return HotelDetail{
		SearchHotel: searchHotel(b.Hotel),
		Items:       items,
		Images:      flattenImages(b.Images),
	}
}

// flattenImages drops the image wrapper records and keeps only their references.
func flattenImages(imgs []domain.HotelImage) []string {
	out := make([]string, 0, len(imgs))
	for _, img := range imgs {
		if img.Image == nil {
			continue
		}
		out = append(out, *img.Image)
	}
	return out
}

func reservationItemView(it domain.ReservationItem) ReservationItemView {
	return ReservationItemView{
		ID:       it.ID,
		Label:    it.Label,
		PriceUSD: fixedPrice(it.PriceUSD),
		PriceLKR: fixedPrice(it.PriceLKR),
	}
}

func fixedPrice(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(domain.PriceScale)
	return &s
}

func amenityView(a domain.Amenity) AmenityView {
	return AmenityView{ID: a.ID, Hotel: a.HotelID, ItemName: a.ItemName}
}

func imageView(img domain.HotelImage) ImageView {
	return ImageView{ID: img.ID, Hotel: img.HotelID, Image: img.Image}
}

func guestView(g domain.Guest) GuestView {
	return GuestView{ID: g.ID, Name: g.Name, Email: g.Email, Contact: g.Contact, Country: g.CountryID}
}

func statusView(s domain.BookingStatus) BookingStatusView {
	return BookingStatusView{ID: s.ID, Code: s.Code, Status: s.Status}
}

func bookingView(b domain.Booking) BookingView {
	return BookingView{
		ID:              b.ID,
		Guest:           b.GuestID,
		ReservationItem: b.ReservationItemID,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		BookingType:     b.BookingType,
		IsPaid:          b.IsPaid,
		Status:          b.StatusID,
	}
}
