package httpserver

import (
	"net/http"

	"nomad_hotel/internal/app"
)

func (h *Handlers) featuredHotels(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", app.FeaturedMax, 1, app.FeaturedMax)
	if !ok {
		return
	}
	out, err := h.Hotels.Featured(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

// searchHotels matches hotels linked to any of the repeated tag parameters.
func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	tags, ok := queryIDs(w, r, "tag")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", app.FeaturedMax, 1, app.FeaturedMax)
	if !ok {
		return
	}
	out, err := h.Hotels.Search(r.Context(), tags, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Hotels.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "hotel", "create", 0, nil, err)
		return
	}
	out, err := h.Hotels.CreateHotel(r.Context(), in)
	writeResult(w, r, "hotel", "create", http.StatusCreated, out, err)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in app.HotelInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "hotel", "update", 0, nil, err)
		return
	}
	out, err := h.Hotels.UpdateHotel(r.Context(), id, in)
	writeResult(w, r, "hotel", "update", http.StatusOK, out, err)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "hotel", h.Hotels.DeleteHotel(r.Context(), id))
}

/********** hotel children **********/

func (h *Handlers) addReservationItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in app.ReservationItemInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "reservation_item", "create", 0, nil, err)
		return
	}
	out, err := h.Hotels.AddReservationItem(r.Context(), id, in)
	writeResult(w, r, "reservation_item", "create", http.StatusCreated, out, err)
}

func (h *Handlers) deleteReservationItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "reservation_item", h.Hotels.DeleteReservationItem(r.Context(), id))
}

func (h *Handlers) listAmenities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Hotels.ListAmenities(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) addAmenity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in app.AmenityInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "amenity", "create", 0, nil, err)
		return
	}
	out, err := h.Hotels.AddAmenity(r.Context(), id, in)
	writeResult(w, r, "amenity", "create", http.StatusCreated, out, err)
}

func (h *Handlers) deleteAmenity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "amenity", h.Hotels.DeleteAmenity(r.Context(), id))
}

func (h *Handlers) addImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in app.ImageInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "image", "create", 0, nil, err)
		return
	}
	out, err := h.Hotels.AddImage(r.Context(), id, in)
	writeResult(w, r, "image", "create", http.StatusCreated, out, err)
}

func (h *Handlers) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "image", h.Hotels.DeleteImage(r.Context(), id))
}
