package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"nomad_hotel/internal/domain"
)

// BookingService handles guests, booking statuses and bookings. Its views are
// shallow: foreign keys stay raw identifiers.
type BookingService struct {
	repo    domain.BookingRepository
	hotels  domain.HotelRepository
	catalog domain.CatalogRepository
}

func NewBookingService(r domain.BookingRepository, h domain.HotelRepository, c domain.CatalogRepository) *BookingService {
	return &BookingService{repo: r, hotels: h, catalog: c}
}

/********** guests **********/

func (s *BookingService) CreateGuest(ctx context.Context, in GuestInput) (GuestView, error) {
	g, err := s.guest(ctx, 0, in)
	if err != nil {
		return GuestView{}, err
	}
	if err := s.repo.CreateGuest(ctx, &g); err != nil {
		return GuestView{}, err
	}
	log.Info().Int64("id", g.ID).Msg("guest created")
	return guestView(g), nil
}

func (s *BookingService) UpdateGuest(ctx context.Context, id int64, in GuestInput) (GuestView, error) {
	if _, err := s.repo.GetGuest(ctx, id); err != nil {
		return GuestView{}, err
	}
	g, err := s.guest(ctx, id, in)
	if err != nil {
		return GuestView{}, err
	}
	if err := s.repo.UpdateGuest(ctx, &g); err != nil {
		return GuestView{}, err
	}
	return guestView(g), nil
}

func (s *BookingService) guest(ctx context.Context, id int64, in GuestInput) (domain.Guest, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return domain.Guest{}, err
	}
	if in.Country != nil {
		if _, err := s.catalog.GetCountry(ctx, *in.Country); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Guest{}, missingPK("country", *in.Country)
			}
			return domain.Guest{}, err
		}
	}
	return domain.Guest{ID: id, Name: in.Name, Email: in.Email, Contact: in.Contact, CountryID: in.Country}, nil
}

func (s *BookingService) GetGuest(ctx context.Context, id int64) (GuestView, error) {
	g, err := s.repo.GetGuest(ctx, id)
	if err != nil {
		return GuestView{}, err
	}
	return guestView(g), nil
}

func (s *BookingService) ListGuests(ctx context.Context, pg domain.PageQuery) ([]GuestView, error) {
	gs, err := s.repo.ListGuests(ctx, pg)
	if err != nil {
		return nil, err
	}
	out := make([]GuestView, 0, len(gs))
	for _, g := range gs {
		out = append(out, guestView(g))
	}
	return out, nil
}

func (s *BookingService) DeleteGuest(ctx context.Context, id int64) error {
	return s.repo.DeleteGuest(ctx, id)
}

/********** statuses **********/

func (s *BookingService) CreateStatus(ctx context.Context, in BookingStatusInput) (BookingStatusView, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return BookingStatusView{}, err
	}
	st := domain.BookingStatus{Code: in.Code, Status: in.Status}
	if err := s.repo.CreateStatus(ctx, &st); err != nil {
		return BookingStatusView{}, err
	}
	return statusView(st), nil
}

func (s *BookingService) ListStatuses(ctx context.Context) ([]BookingStatusView, error) {
	ss, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BookingStatusView, 0, len(ss))
	for _, st := range ss {
		out = append(out, statusView(st))
	}
	return out, nil
}

func (s *BookingService) DeleteStatus(ctx context.Context, id int64) error {
	return s.repo.DeleteStatus(ctx, id)
}

/********** bookings **********/

func (s *BookingService) CreateBooking(ctx context.Context, in BookingInput) (BookingView, error) {
	b, err := s.booking(ctx, 0, in)
	if err != nil {
		return BookingView{}, err
	}
	if err := s.repo.CreateBooking(ctx, &b); err != nil {
		return BookingView{}, err
	}
	log.Info().Int64("id", b.ID).Msg("booking created")
	return bookingView(b), nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, id int64, in BookingInput) (BookingView, error) {
	if _, err := s.repo.GetBooking(ctx, id); err != nil {
		return BookingView{}, err
	}
	b, err := s.booking(ctx, id, in)
	if err != nil {
		return BookingView{}, err
	}
	if err := s.repo.UpdateBooking(ctx, &b); err != nil {
		return BookingView{}, err
	}
	return bookingView(b), nil
}

// booking validates the input and its references, reporting every failure at once.
func (s *BookingService) booking(ctx context.Context, id int64, in BookingInput) (domain.Booking, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return domain.Booking{}, err
	}
	verr := &domain.ValidationError{}
	if in.Guest != nil {
		if _, err := s.repo.GetGuest(ctx, *in.Guest); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return domain.Booking{}, err
			}
			verr.Add("guest", pkMessage(*in.Guest))
		}
	}
	if in.ReservationItem != nil {
		ok, err := s.hotels.ReservationItemExists(ctx, *in.ReservationItem)
		if err != nil {
			return domain.Booking{}, err
		}
		if !ok {
			verr.Add("reservationItem", pkMessage(*in.ReservationItem))
		}
	}
	if in.Status != nil {
		ok, err := s.repo.StatusExists(ctx, *in.Status)
		if err != nil {
			return domain.Booking{}, err
		}
		if !ok {
			verr.Add("status", pkMessage(*in.Status))
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.Booking{}, err
	}
	b := in.entity(id)
	if err := b.Validate(); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (BookingView, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return BookingView{}, err
	}
	return bookingView(b), nil
}

func (s *BookingService) ListBookings(ctx context.Context, pg domain.PageQuery) ([]BookingView, error) {
	bs, err := s.repo.ListBookings(ctx, pg)
	if err != nil {
		return nil, err
	}
	out := make([]BookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingView(b))
	}
	return out, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	return s.repo.DeleteBooking(ctx, id)
}
