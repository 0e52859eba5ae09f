package mysql

import (
	"context"
	"database/sql"

	"nomad_hotel/internal/domain"
)

var (
	guestsTable   = table{name: "guests", pk: "guestid", entity: "guest"}
	statusesTable = table{name: "booking_statuses", pk: "id", entity: "booking status"}
	bookingsTable = table{name: "bookings", pk: "bookingid", entity: "booking"}
)

/********** guests **********/

func (r *Repo) CreateGuest(ctx context.Context, g *domain.Guest) error {
	id, err := insertID(r.db.ExecContext(ctx, insertGuestSQL,
		valStr(g.Name), valStr(g.Email), valStr(g.Contact), valInt64(g.CountryID)))
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

func (r *Repo) UpdateGuest(ctx context.Context, g *domain.Guest) error {
	return r.updateRow(ctx, guestsTable, g.ID, updateGuestSQL,
		valStr(g.Name), valStr(g.Email), valStr(g.Contact), valInt64(g.CountryID), g.ID)
}

func scanGuest(row rowScanner) (domain.Guest, error) {
	var (
		g                    domain.Guest
		name, email, contact sql.NullString
		country              sql.NullInt64
	)
	if err := row.Scan(&g.ID, &name, &email, &contact, &country); err != nil {
		return domain.Guest{}, mapErr(err)
	}
	g.Name, g.Email, g.Contact, g.CountryID = strPtr(name), strPtr(email), strPtr(contact), int64Ptr(country)
	return g, nil
}

func (r *Repo) GetGuest(ctx context.Context, id int64) (domain.Guest, error) {
	return scanGuest(r.db.QueryRowContext(ctx, selectGuestSQL+" WHERE guestid = ?", id))
}

func (r *Repo) ListGuests(ctx context.Context, pg domain.PageQuery) ([]domain.Guest, error) {
	q, args := withPage(selectGuestSQL+" ORDER BY guestid", pg, nil)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteGuest(ctx context.Context, id int64) error {
	_, err := r.deleteGuarded(ctx, guestsTable, id, guestDependents)
	return err
}

/********** statuses **********/

func (r *Repo) CreateStatus(ctx context.Context, s *domain.BookingStatus) error {
	id, err := insertID(r.db.ExecContext(ctx, insertStatusSQL, valInt(s.Code), valStr(s.Status)))
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *Repo) ListStatuses(ctx context.Context) ([]domain.BookingStatus, error) {
	rows, err := r.db.QueryContext(ctx, selectStatusSQL+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookingStatus
	for rows.Next() {
		var (
			s      domain.BookingStatus
			code   sql.NullInt64
			status sql.NullString
		)
		if err := rows.Scan(&s.ID, &code, &status); err != nil {
			return nil, err
		}
		s.Code, s.Status = intPtr(code), strPtr(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) StatusExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM booking_statuses WHERE id = ?`, id)
}

func (r *Repo) DeleteStatus(ctx context.Context, id int64) error {
	_, err := r.deleteGuarded(ctx, statusesTable, id, statusDependents)
	return err
}

/********** bookings **********/

func bookingArgs(b *domain.Booking) []any {
	return []any{
		valInt64(b.GuestID),
		valInt64(b.ReservationItemID),
		valTime(b.CheckIn),
		valTime(b.CheckOut),
		valStr(b.BookingType),
		valBool(b.IsPaid),
		valInt64(b.StatusID),
	}
}

func (r *Repo) CreateBooking(ctx context.Context, b *domain.Booking) error {
	id, err := insertID(r.db.ExecContext(ctx, insertBookingSQL, bookingArgs(b)...))
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (r *Repo) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	return r.updateRow(ctx, bookingsTable, b.ID, updateBookingSQL, append(bookingArgs(b), b.ID)...)
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var (
		b                   domain.Booking
		guest, item, status sql.NullInt64
		checkIn, checkOut   sql.NullTime
		bookingType         sql.NullString
		isPaid              sql.NullBool
	)
	if err := row.Scan(&b.ID, &guest, &item, &checkIn, &checkOut, &bookingType, &isPaid, &status); err != nil {
		return domain.Booking{}, mapErr(err)
	}
	b.GuestID, b.ReservationItemID, b.StatusID = int64Ptr(guest), int64Ptr(item), int64Ptr(status)
	b.CheckIn, b.CheckOut = timePtr(checkIn), timePtr(checkOut)
	b.BookingType, b.IsPaid = strPtr(bookingType), boolPtr(isPaid)
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx, selectBookingSQL+" WHERE bookingid = ?", id))
}

func (r *Repo) ListBookings(ctx context.Context, pg domain.PageQuery) ([]domain.Booking, error) {
	q, args := withPage(selectBookingSQL+" ORDER BY bookingid", pg, nil)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	_, err := r.deleteGuarded(ctx, bookingsTable, id, nil)
	return err
}
