package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"nomad_hotel/internal/adapters/observability"
	"nomad_hotel/internal/app"
	"nomad_hotel/internal/domain"
)

const maxBody = 1 << 20

type Handlers struct {
	Catalog  *app.CatalogService
	Hotels   *app.HotelService
	Bookings *app.BookingService
	// Ready reports backing store health for /healthz; nil means always ready.
	Ready func(r *http.Request) error
}

type problem struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Detail        string         `json:"detail,omitempty"`
	InvalidParams []invalidParam `json:"invalid_params,omitempty"`
}

type invalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.healthz)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Route("/experiences", func(r chi.Router) {
			r.Get("/", h.listExperiences)
			r.Post("/", h.createExperience)
			r.Get("/{id}", h.getExperience)
			r.Delete("/{id}", h.deleteExperience)
		})
		r.Route("/countries", func(r chi.Router) {
			r.Get("/", h.listCountries)
			r.Post("/", h.createCountry)
			r.Get("/{id}", h.getCountry)
			r.Delete("/{id}", h.deleteCountry)
		})
		r.Route("/cities", func(r chi.Router) {
			r.Get("/", h.listCities)
			r.Post("/", h.createCity)
			r.Get("/{id}", h.getCity)
			r.Delete("/{id}", h.deleteCity)
		})

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/featured", h.featuredHotels)
			r.Get("/search", h.searchHotels)
			r.Post("/", h.createHotel)
			r.Get("/{id}", h.getHotel)
			r.Put("/{id}", h.updateHotel)
			r.Delete("/{id}", h.deleteHotel)
			r.Post("/{id}/reservation-items", h.addReservationItem)
			r.Get("/{id}/amenities", h.listAmenities)
			r.Post("/{id}/amenities", h.addAmenity)
			r.Post("/{id}/images", h.addImage)
		})
		r.Delete("/reservation-items/{id}", h.deleteReservationItem)
		r.Delete("/amenities/{id}", h.deleteAmenity)
		r.Delete("/images/{id}", h.deleteImage)

		r.Route("/booking-statuses", func(r chi.Router) {
			r.Get("/", h.listStatuses)
			r.Post("/", h.createStatus)
			r.Delete("/{id}", h.deleteStatus)
		})
		r.Route("/guests", func(r chi.Router) {
			r.Get("/", h.listGuests)
			r.Post("/", h.createGuest)
			r.Get("/{id}", h.getGuest)
			r.Put("/{id}", h.updateGuest)
			r.Delete("/{id}", h.deleteGuest)
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.listBookings)
			r.Post("/", h.createBooking)
			r.Get("/{id}", h.getBooking)
			r.Put("/{id}", h.updateBooking)
			r.Delete("/{id}", h.deleteBooking)
		})
	})
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

/********** responses **********/

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto status codes. Anything unrecognised is a 500
// and its text is not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		rerr *domain.ReferenceError
		uerr *domain.UniqueError
	)
	switch {
	case errors.As(err, &verr):
		p := problem{Type: "about:blank", Title: "Invalid input", Status: http.StatusBadRequest}
		for field, msgs := range verr.Fields {
			for _, m := range msgs {
				p.InvalidParams = append(p.InvalidParams, invalidParam{Name: field, Reason: m})
			}
		}
		sort.SliceStable(p.InvalidParams, func(i, j int) bool { return p.InvalidParams[i].Name < p.InvalidParams[j].Name })
		writeProblemBody(w, p)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.As(err, &rerr):
		writeProblem(w, http.StatusConflict, "Protected", rerr.Error())
	case errors.As(err, &uerr):
		writeProblem(w, http.StatusConflict, "Duplicate", uerr.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeGet answers a read with a weak ETag, short-circuiting to 304 when the
// client already holds this version.
func writeGet(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

// writeResult finishes a create or update and records its outcome.
func writeResult(w http.ResponseWriter, r *http.Request, entity, op string, status int, v any, err error) {
	observability.ObserveWrite(entity, op, err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, v)
}

func writeDeleted(w http.ResponseWriter, r *http.Request, entity string, err error) {
	observability.ObserveWrite(entity, "delete", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** requests **********/

// decode reads a JSON body into dst. Malformed JSON and wrongly typed fields come
// back as validation errors.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		var (
			typeErr *json.UnmarshalTypeError
			syntax  *json.SyntaxError
			tooBig  *http.MaxBytesError
		)
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return domain.NewValidationError(typeErr.Field, fmt.Sprintf("Incorrect type. Expected %s.", typeErr.Type))
		case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
			return domain.NewValidationError(domain.NonFieldErrors, "JSON parse error.")
		case errors.Is(err, io.EOF):
			return domain.NewValidationError(domain.NonFieldErrors, "No data provided.")
		case errors.As(err, &tooBig):
			return domain.NewValidationError(domain.NonFieldErrors, "Request body too large.")
		default:
			return domain.NewValidationError(domain.NonFieldErrors, err.Error())
		}
	}
	return nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter within [lo, hi].
func queryInt(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		writeProblem(w, http.StatusBadRequest, "Invalid "+name,
			fmt.Sprintf("%s must be an integer between %d and %d", name, lo, hi))
		return 0, false
	}
	return v, true
}

func queryIDs(w http.ResponseWriter, r *http.Request, name string) ([]int64, bool) {
	var out []int64
	for _, s := range r.URL.Query()[name] {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid "+name, name+" must be a positive number")
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

func pageQuery(w http.ResponseWriter, r *http.Request) (domain.PageQuery, bool) {
	limit, ok := queryInt(w, r, "limit", 100, 1, 500)
	if !ok {
		return domain.PageQuery{}, false
	}
	offset, ok := queryInt(w, r, "offset", 0, 0, 1<<30)
	if !ok {
		return domain.PageQuery{}, false
	}
	return domain.PageQuery{Limit: limit, Offset: offset}, true
}
