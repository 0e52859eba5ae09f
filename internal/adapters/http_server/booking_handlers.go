package httpserver

import (
	"net/http"

	"nomad_hotel/internal/app"
)

/********** booking statuses **********/

func (h *Handlers) listStatuses(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.ListStatuses(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) createStatus(w http.ResponseWriter, r *http.Request) {
	var in app.BookingStatusInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "booking_status", "create", 0, nil, err)
		return
	}
	out, err := h.Bookings.CreateStatus(r.Context(), in)
	writeResult(w, r, "booking_status", "create", http.StatusCreated, out, err)
}

func (h *Handlers) deleteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "booking_status", h.Bookings.DeleteStatus(r.Context(), id))
}

/********** guests **********/

func (h *Handlers) listGuests(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Bookings.ListGuests(r.Context(), pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) createGuest(w http.ResponseWriter, r *http.Request) {
	var in app.GuestInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "guest", "create", 0, nil, err)
		return
	}
	out, err := h.Bookings.CreateGuest(r.Context(), in)
	writeResult(w, r, "guest", "create", http.StatusCreated, out, err)
}

func (h *Handlers) getGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Bookings.GetGuest(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) updateGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in app.GuestInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "guest", "update", 0, nil, err)
		return
	}
	out, err := h.Bookings.UpdateGuest(r.Context(), id, in)
	writeResult(w, r, "guest", "update", http.StatusOK, out, err)
}

func (h *Handlers) deleteGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "guest", h.Bookings.DeleteGuest(r.Context(), id))
}

/********** bookings **********/

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Bookings.ListBookings(r.Context(), pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var in app.BookingInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "booking", "create", 0, nil, err)
		return
	}
	out, err := h.Bookings.CreateBooking(r.Context(), in)
	writeResult(w, r, "booking", "create", http.StatusCreated, out, err)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in app.BookingInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "booking", "update", 0, nil, err)
		return
	}
	out, err := h.Bookings.UpdateBooking(r.Context(), id, in)
	writeResult(w, r, "booking", "update", http.StatusOK, out, err)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "booking", h.Bookings.DeleteBooking(r.Context(), id))
}
