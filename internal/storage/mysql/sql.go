package mysql

// -----------------------------------------------------------------------------
// CATALOGUE
// -----------------------------------------------------------------------------

const insertCountrySQL = `INSERT INTO countries (country_name, country_code) VALUES (?, ?)`

const selectCountrySQL = `SELECT countryid, country_name, country_code FROM countries`

const insertCitySQL = `INSERT INTO cities (country_id, city_name) VALUES (?, ?)`

const selectCitySQL = `SELECT cityid, country_id, city_name FROM cities`

const insertExperienceSQL = `
INSERT INTO experiences (exptag, description, cover_image)
VALUES (?, ?, ?)
`

const selectExperienceSQL = `SELECT expid, exptag, description, cover_image FROM experiences`

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels
  (name, description, location_street, location_city_id, location_country_id, email, contact_number)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET
  name                = ?,
  description         = ?,
  location_street     = ?,
  location_city_id    = ?,
  location_country_id = ?,
  email               = ?,
  contact_number      = ?
WHERE hotelid = ?
`

const insertHotelTagsPrefix = "INSERT INTO hotel_experiences (hotel_id, experience_id) VALUES "

const deleteHotelTagsSQL = `DELETE FROM hotel_experiences WHERE hotel_id = ?`

// Hotel row with its city and country resolved. LEFT JOINs keep hotels whose
// location is unset.
const selectHotelSQL = `
SELECT
  h.hotelid,
  h.name,
  h.description,
  h.location_street,
  h.email,
  h.contact_number,
  h.location_city_id,
  h.location_country_id,
  c.cityid,
  c.country_id,
  c.city_name,
  co.countryid,
  co.country_name,
  co.country_code
FROM hotels h
LEFT JOIN cities c     ON c.cityid = h.location_city_id
LEFT JOIN countries co ON co.countryid = h.location_country_id
`

// Tags of a set of hotels; the IN list is appended by the caller.
const selectHotelTagsPrefix = `
SELECT he.hotel_id, e.expid, e.exptag, e.description, e.cover_image
FROM hotel_experiences he
JOIN experiences e ON e.expid = he.experience_id
WHERE he.hotel_id IN `

const hasAnyTagSQL = `
EXISTS (
  SELECT 1 FROM hotel_experiences he
  WHERE he.hotel_id = h.hotelid AND he.experience_id IN `

const insertItemSQL = `
INSERT INTO reservation_items (hotel_id, reservation_item, priceinfo_usd, priceinfo_lkr)
VALUES (?, ?, ?, ?)
`

const selectItemsSQL = `
SELECT reservation_item_id, hotel_id, reservation_item, priceinfo_usd, priceinfo_lkr
FROM reservation_items
WHERE hotel_id = ?
ORDER BY reservation_item_id
`

const insertAmenitySQL = `INSERT INTO hotel_amenities (hotel_id, item_name) VALUES (?, ?)`

const selectAmenitiesSQL = `
SELECT id, hotel_id, item_name FROM hotel_amenities WHERE hotel_id = ? ORDER BY id
`

const insertImageSQL = `INSERT INTO hotel_images (hotel_id, image) VALUES (?, ?)`

const selectImagesSQL = `SELECT id, hotel_id, image FROM hotel_images WHERE hotel_id = ? ORDER BY id`

// -----------------------------------------------------------------------------
// GUESTS & BOOKINGS
// -----------------------------------------------------------------------------

const insertGuestSQL = `
INSERT INTO guests (name, email, contact_number, country_id) VALUES (?, ?, ?, ?)
`

const updateGuestSQL = `
UPDATE guests SET name = ?, email = ?, contact_number = ?, country_id = ? WHERE guestid = ?
`

const selectGuestSQL = `SELECT guestid, name, email, contact_number, country_id FROM guests`

const insertStatusSQL = `INSERT INTO booking_statuses (status_id, status) VALUES (?, ?)`

const selectStatusSQL = `SELECT id, status_id, status FROM booking_statuses`

const insertBookingSQL = `
INSERT INTO bookings
  (guest_id, reservation_item_id, check_in, check_out, booking_type, is_paid, status_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const updateBookingSQL = `
UPDATE bookings SET
  guest_id            = ?,
  reservation_item_id = ?,
  check_in            = ?,
  check_out           = ?,
  booking_type        = ?,
  is_paid             = ?,
  status_id           = ?
WHERE bookingid = ?
`

const selectBookingSQL = `
SELECT bookingid, guest_id, reservation_item_id, check_in, check_out, booking_type, is_paid, status_id
FROM bookings
`

// -----------------------------------------------------------------------------
// DELETE PROTECTION
// -----------------------------------------------------------------------------

// dependent is one table whose rows pin a parent row in place.
type dependent struct {
	table string
	query string // one placeholder: the parent id
}

var (
	countryDependents = []dependent{
		{"cities", `SELECT 1 FROM cities WHERE country_id = ? LIMIT 1`},
		{"hotels", `SELECT 1 FROM hotels WHERE location_country_id = ? LIMIT 1`},
		{"guests", `SELECT 1 FROM guests WHERE country_id = ? LIMIT 1`},
	}
	cityDependents = []dependent{
		{"hotels", `SELECT 1 FROM hotels WHERE location_city_id = ? LIMIT 1`},
	}
	hotelDependents = []dependent{
		{"reservation_items", `SELECT 1 FROM reservation_items WHERE hotel_id = ? LIMIT 1`},
		{"hotel_amenities", `SELECT 1 FROM hotel_amenities WHERE hotel_id = ? LIMIT 1`},
		{"hotel_images", `SELECT 1 FROM hotel_images WHERE hotel_id = ? LIMIT 1`},
	}
	itemDependents = []dependent{
		{"bookings", `SELECT 1 FROM bookings WHERE reservation_item_id = ? LIMIT 1`},
	}
	guestDependents = []dependent{
		{"bookings", `SELECT 1 FROM bookings WHERE guest_id = ? LIMIT 1`},
	}
	statusDependents = []dependent{
		{"bookings", `SELECT 1 FROM bookings WHERE status_id = ? LIMIT 1`},
	}
)
