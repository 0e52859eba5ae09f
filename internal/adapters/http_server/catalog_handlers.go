package httpserver

import (
	"net/http"

	"nomad_hotel/internal/app"
)

/********** experiences **********/

func (h *Handlers) listExperiences(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListExperiences(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) createExperience(w http.ResponseWriter, r *http.Request) {
	var in app.ExperienceInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "experience", "create", 0, nil, err)
		return
	}
	out, err := h.Catalog.CreateExperience(r.Context(), in)
	writeResult(w, r, "experience", "create", http.StatusCreated, out, err)
}

func (h *Handlers) getExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Catalog.GetExperience(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) deleteExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "experience", h.Hotels.DeleteExperience(r.Context(), id))
}

/********** countries **********/

func (h *Handlers) listCountries(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListCountries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) createCountry(w http.ResponseWriter, r *http.Request) {
	var in app.CountryInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "country", "create", 0, nil, err)
		return
	}
	out, err := h.Catalog.CreateCountry(r.Context(), in)
	writeResult(w, r, "country", "create", http.StatusCreated, out, err)
}

func (h *Handlers) getCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Catalog.GetCountry(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) deleteCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "country", h.Catalog.DeleteCountry(r.Context(), id))
}

/********** cities **********/

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	ids, ok := queryIDs(w, r, "country")
	if !ok {
		return
	}
	var country *int64
	if len(ids) > 0 {
		country = &ids[0]
	}
	out, err := h.Catalog.ListCities(r.Context(), country)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) createCity(w http.ResponseWriter, r *http.Request) {
	var in app.CityInput
	if err := decode(w, r, &in); err != nil {
		writeResult(w, r, "city", "create", 0, nil, err)
		return
	}
	out, err := h.Catalog.CreateCity(r.Context(), in)
	writeResult(w, r, "city", "create", http.StatusCreated, out, err)
}

func (h *Handlers) getCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Catalog.GetCity(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGet(w, r, out)
}

func (h *Handlers) deleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeDeleted(w, r, "city", h.Catalog.DeleteCity(r.Context(), id))
}
