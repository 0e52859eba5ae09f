package memory

import (
	"context"
	"sort"
	"sync"

	"nomad_hotel/internal/domain"
)

// Store is an in-process repository. It enforces the same uniqueness and
// delete-protection rules as the MySQL schema.
type Store struct {
	mu        sync.Mutex
	seq       int64
	countries map[int64]domain.Country
	cities    map[int64]domain.City
	tags      map[int64]domain.ExperienceTag
	hotels    map[int64]domain.Hotel
	items     map[int64]domain.ReservationItem
	amenities map[int64]domain.Amenity
	images    map[int64]domain.HotelImage
	guests    map[int64]domain.Guest
	statuses  map[int64]domain.BookingStatus
	bookings  map[int64]domain.Booking
}

func New() *Store {
	return &Store{
		countries: map[int64]domain.Country{},
		cities:    map[int64]domain.City{},
		tags:      map[int64]domain.ExperienceTag{},
		hotels:    map[int64]domain.Hotel{},
		items:     map[int64]domain.ReservationItem{},
		amenities: map[int64]domain.Amenity{},
		images:    map[int64]domain.HotelImage{},
		guests:    map[int64]domain.Guest{},
		statuses:  map[int64]domain.BookingStatus{},
		bookings:  map[int64]domain.Booking{},
	}
}

var (
	_ domain.CatalogRepository = (*Store)(nil)
	_ domain.HotelRepository   = (*Store)(nil)
	_ domain.BookingRepository = (*Store)(nil)
)

func (m *Store) next() int64 { m.seq++; return m.seq }

func keys[V any](in map[int64]V) []int64 {
	out := make([]int64, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func eq(p *int64, id int64) bool { return p != nil && *p == id }

func page(ids []int64, pg domain.PageQuery) []int64 {
	if pg.Offset > 0 {
		if pg.Offset >= len(ids) {
			return nil
		}
		ids = ids[pg.Offset:]
	}
	if pg.Limit > 0 && len(ids) > pg.Limit {
		ids = ids[:pg.Limit]
	}
	return ids
}

// catalog

func (m *Store) CreateCountry(ctx context.Context, c *domain.Country) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.countries {
		if ex.Code == c.Code {
			return &domain.UniqueError{Field: "country_code", Value: c.Code}
		}
	}
	c.ID = m.next()
	m.countries[c.ID] = *c
	return nil
}

func (m *Store) GetCountry(ctx context.Context, id int64) (domain.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.countries[id]
	if !ok {
		return domain.Country{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *Store) FindCountryByCode(ctx context.Context, code string) (domain.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.countries {
		if c.Code == code {
			return c, nil
		}
	}
	return domain.Country{}, domain.ErrNotFound
}

func (m *Store) ListCountries(ctx context.Context) ([]domain.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Country
	for _, k := range keys(m.countries) {
		out = append(out, m.countries[k])
	}
	return out, nil
}

func (m *Store) DeleteCountry(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.countries[id]; !ok {
		return domain.ErrNotFound
	}
	for _, c := range m.cities {
		if eq(c.CountryID, id) {
			return &domain.ReferenceError{Entity: "country", ID: id, Dependent: "cities"}
		}
	}
	for _, h := range m.hotels {
		if eq(h.CountryID, id) {
			return &domain.ReferenceError{Entity: "country", ID: id, Dependent: "hotels"}
		}
	}
	for _, g := range m.guests {
		if eq(g.CountryID, id) {
			return &domain.ReferenceError{Entity: "country", ID: id, Dependent: "guests"}
		}
	}
	delete(m.countries, id)
	return nil
}

func (m *Store) CreateCity(ctx context.Context, c *domain.City) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.next()
	m.cities[c.ID] = *c
	return nil
}

func (m *Store) GetCity(ctx context.Context, id int64) (domain.City, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cities[id]
	if !ok {
		return domain.City{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *Store) FindCity(ctx context.Context, countryID int64, name string) (domain.City, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys(m.cities) {
		c := m.cities[k]
		if eq(c.CountryID, countryID) && c.Name != nil && *c.Name == name {
			return c, nil
		}
	}
	return domain.City{}, domain.ErrNotFound
}

func (m *Store) ListCities(ctx context.Context, countryID *int64) ([]domain.City, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.City
	for _, k := range keys(m.cities) {
		c := m.cities[k]
		if countryID != nil && !eq(c.CountryID, *countryID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *Store) DeleteCity(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cities[id]; !ok {
		return domain.ErrNotFound
	}
	for _, h := range m.hotels {
		if eq(h.CityID, id) {
			return &domain.ReferenceError{Entity: "city", ID: id, Dependent: "hotels"}
		}
	}
	delete(m.cities, id)
	return nil
}

func (m *Store) CreateExperience(ctx context.Context, e *domain.ExperienceTag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.next()
	m.tags[e.ID] = *e
	return nil
}

func (m *Store) GetExperience(ctx context.Context, id int64) (domain.ExperienceTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.tags[id]
	if !ok {
		return domain.ExperienceTag{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *Store) FindExperienceByLabel(ctx context.Context, label string) (domain.ExperienceTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys(m.tags) {
		if e := m.tags[k]; e.Label != nil && *e.Label == label {
			return e, nil
		}
	}
	return domain.ExperienceTag{}, domain.ErrNotFound
}

func (m *Store) ListExperiences(ctx context.Context) ([]domain.ExperienceTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ExperienceTag
	for _, k := range keys(m.tags) {
		out = append(out, m.tags[k])
	}
	return out, nil
}

func (m *Store) DeleteExperience(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.tags, id)
	for hid, h := range m.hotels {
		kept := h.TagIDs[:0:0]
		for _, t := range h.TagIDs {
			if t != id {
				kept = append(kept, t)
			}
		}
		h.TagIDs = kept
		m.hotels[hid] = h
	}
	return nil
}

// hotels

func (m *Store) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = m.next()
	row := *h
	row.TagIDs = append([]int64(nil), h.TagIDs...)
	m.hotels[h.ID] = row
	return nil
}

func (m *Store) UpdateHotel(ctx context.Context, h *domain.Hotel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hotels[h.ID]; !ok {
		return domain.ErrNotFound
	}
	row := *h
	row.TagIDs = append([]int64(nil), h.TagIDs...)
	m.hotels[h.ID] = row
	return nil
}

func (m *Store) DeleteHotel(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	for _, it := range m.items {
		if it.HotelID == id {
			return &domain.ReferenceError{Entity: "hotel", ID: id, Dependent: "reservation_items"}
		}
	}
	for _, a := range m.amenities {
		if a.HotelID == id {
			return &domain.ReferenceError{Entity: "hotel", ID: id, Dependent: "hotel_amenities"}
		}
	}
	for _, img := range m.images {
		if img.HotelID == id {
			return &domain.ReferenceError{Entity: "hotel", ID: id, Dependent: "hotel_images"}
		}
	}
	delete(m.hotels, id)
	return nil
}

func (m *Store) AddReservationItem(ctx context.Context, it *domain.ReservationItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = m.next()
	m.items[it.ID] = *it
	return nil
}

func (m *Store) DeleteReservationItem(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	for _, b := range m.bookings {
		if eq(b.ReservationItemID, id) {
			return 0, &domain.ReferenceError{Entity: "reservation item", ID: id, Dependent: "bookings"}
		}
	}
	delete(m.items, id)
	return it.HotelID, nil
}

func (m *Store) AddAmenity(ctx context.Context, a *domain.Amenity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.next()
	m.amenities[a.ID] = *a
	return nil
}

func (m *Store) DeleteAmenity(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.amenities[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	delete(m.amenities, id)
	return a.HotelID, nil
}

func (m *Store) AddImage(ctx context.Context, img *domain.HotelImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img.ID = m.next()
	m.images[img.ID] = *img
	return nil
}

func (m *Store) DeleteImage(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	delete(m.images, id)
	return img.HotelID, nil
}

// resolved fills City, Country and Tags; caller holds m.mu.
func (m *Store) resolved(h domain.Hotel) domain.Hotel {
	if h.CityID != nil {
		if c, ok := m.cities[*h.CityID]; ok {
			h.City = &c
		}
	}
	if h.CountryID != nil {
		if c, ok := m.countries[*h.CountryID]; ok {
			h.Country = &c
		}
	}
	h.Tags = nil
	for _, id := range h.TagIDs {
		if t, ok := m.tags[id]; ok {
			h.Tags = append(h.Tags, t)
		}
	}
	return h
}

func (m *Store) GetHotel(ctx context.Context, id int64) (domain.HotelBundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hotels[id]
	if !ok {
		return domain.HotelBundle{}, domain.ErrNotFound
	}
	b := domain.HotelBundle{Hotel: m.resolved(h)}
	for _, k := range keys(m.items) {
		if m.items[k].HotelID == id {
			b.Items = append(b.Items, m.items[k])
		}
	}
	for _, k := range keys(m.amenities) {
		if m.amenities[k].HotelID == id {
			b.Amenities = append(b.Amenities, m.amenities[k])
		}
	}
	for _, k := range keys(m.images) {
		if m.images[k].HotelID == id {
			b.Images = append(b.Images, m.images[k])
		}
	}
	return b, nil
}

func (m *Store) HotelExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.hotels[id]
	return ok, nil
}

func (m *Store) ReservationItemExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[id]
	return ok, nil
}

func (m *Store) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Hotel
	for _, k := range keys(m.hotels) {
		h := m.hotels[k]
		if q.Name != nil && (h.Name == nil || *h.Name != *q.Name) {
			continue
		}
		if q.CityID != nil && !eq(h.CityID, *q.CityID) {
			continue
		}
		if len(q.TagIDs) > 0 && !anyTag(h.TagIDs, q.TagIDs) {
			continue
		}
		out = append(out, m.resolved(h))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func anyTag(have, want []int64) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (m *Store) ListAmenities(ctx context.Context, hotelID int64) ([]domain.Amenity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Amenity
	for _, k := range keys(m.amenities) {
		if m.amenities[k].HotelID == hotelID {
			out = append(out, m.amenities[k])
		}
	}
	return out, nil
}

// bookings

func (m *Store) CreateGuest(ctx context.Context, g *domain.Guest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = m.next()
	m.guests[g.ID] = *g
	return nil
}

func (m *Store) UpdateGuest(ctx context.Context, g *domain.Guest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.guests[g.ID]; !ok {
		return domain.ErrNotFound
	}
	m.guests[g.ID] = *g
	return nil
}

func (m *Store) GetGuest(ctx context.Context, id int64) (domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guests[id]
	if !ok {
		return domain.Guest{}, domain.ErrNotFound
	}
	return g, nil
}

func (m *Store) ListGuests(ctx context.Context, pg domain.PageQuery) ([]domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Guest
	for _, k := range page(keys(m.guests), pg) {
		out = append(out, m.guests[k])
	}
	return out, nil
}

func (m *Store) DeleteGuest(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.guests[id]; !ok {
		return domain.ErrNotFound
	}
	for _, b := range m.bookings {
		if eq(b.GuestID, id) {
			return &domain.ReferenceError{Entity: "guest", ID: id, Dependent: "bookings"}
		}
	}
	delete(m.guests, id)
	return nil
}

func (m *Store) CreateStatus(ctx context.Context, s *domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.next()
	m.statuses[s.ID] = *s
	return nil
}

func (m *Store) ListStatuses(ctx context.Context) ([]domain.BookingStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BookingStatus
	for _, k := range keys(m.statuses) {
		out = append(out, m.statuses[k])
	}
	return out, nil
}

func (m *Store) StatusExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.statuses[id]
	return ok, nil
}

func (m *Store) DeleteStatus(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.statuses[id]; !ok {
		return domain.ErrNotFound
	}
	for _, b := range m.bookings {
		if eq(b.StatusID, id) {
			return &domain.ReferenceError{Entity: "booking status", ID: id, Dependent: "bookings"}
		}
	}
	delete(m.statuses, id)
	return nil
}

func (m *Store) CreateBooking(ctx context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.next()
	m.bookings[b.ID] = *b
	return nil
}

func (m *Store) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return domain.ErrNotFound
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *Store) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (m *Store) ListBookings(ctx context.Context, pg domain.PageQuery) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, k := range page(keys(m.bookings), pg) {
		out = append(out, m.bookings[k])
	}
	return out, nil
}

func (m *Store) DeleteBooking(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}
