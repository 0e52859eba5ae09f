package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"nomad_hotel/internal/domain"
)

var (
	hotelsTable    = table{name: "hotels", pk: "hotelid", entity: "hotel"}
	itemsTable     = table{name: "reservation_items", pk: "reservation_item_id", owner: "hotel_id", entity: "reservation item"}
	amenitiesTable = table{name: "hotel_amenities", pk: "id", owner: "hotel_id", entity: "amenity"}
	imagesTable    = table{name: "hotel_images", pk: "id", owner: "hotel_id", entity: "image"}
)

func hotelArgs(h *domain.Hotel) []any {
	return []any{
		valStr(h.Name),
		valStr(h.Description),
		valStr(h.Street),
		valInt64(h.CityID),
		valInt64(h.CountryID),
		valStr(h.Email),
		valStr(h.Contact),
	}
}

func insertTags(ctx context.Context, tx *sql.Tx, hotelID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	values := make([]string, 0, len(tagIDs))
	args := make([]any, 0, len(tagIDs)*2)
	for _, id := range tagIDs {
		values = append(values, "(?,?)")
		args = append(args, hotelID, id)
	}
	_, err := tx.ExecContext(ctx, insertHotelTagsPrefix+strings.Join(values, ","), args...)
	return err
}

// CreateHotel writes the hotel row and its tag links in one transaction.
func (r *Repo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	return mapErr(r.inTx(ctx, func(tx *sql.Tx) error {
		id, err := insertID(tx.ExecContext(ctx, insertHotelSQL, hotelArgs(h)...))
		if err != nil {
			return err
		}
		if err := insertTags(ctx, tx, id, h.TagIDs); err != nil {
			return err
		}
		h.ID = id
		return nil
	}))
}

// UpdateHotel overwrites the hotel row and replaces its tag links.
func (r *Repo) UpdateHotel(ctx context.Context, h *domain.Hotel) error {
	return mapErr(r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := lockRow(ctx, tx, hotelsTable, h.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, updateHotelSQL, append(hotelArgs(h), h.ID)...); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteHotelTagsSQL, h.ID); err != nil {
			return err
		}
		return insertTags(ctx, tx, h.ID, h.TagIDs)
	}))
}

// DeleteHotel refuses while reservation items, amenities or images remain. Tag
// links are removed by the cascade.
func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	_, err := r.deleteGuarded(ctx, hotelsTable, id, hotelDependents)
	return err
}

func (r *Repo) AddReservationItem(ctx context.Context, it *domain.ReservationItem) error {
	id, err := insertID(r.db.ExecContext(ctx, insertItemSQL, it.HotelID, valStr(it.Label), it.PriceUSD, it.PriceLKR))
	if err != nil {
		return err
	}
	it.ID = id
	return nil
}

func (r *Repo) DeleteReservationItem(ctx context.Context, id int64) (int64, error) {
	return r.deleteGuarded(ctx, itemsTable, id, itemDependents)
}

func (r *Repo) AddAmenity(ctx context.Context, a *domain.Amenity) error {
	id, err := insertID(r.db.ExecContext(ctx, insertAmenitySQL, a.HotelID, valStr(a.ItemName)))
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (r *Repo) DeleteAmenity(ctx context.Context, id int64) (int64, error) {
	return r.deleteGuarded(ctx, amenitiesTable, id, nil)
}

func (r *Repo) AddImage(ctx context.Context, img *domain.HotelImage) error {
	id, err := insertID(r.db.ExecContext(ctx, insertImageSQL, img.HotelID, valStr(img.Image)))
	if err != nil {
		return err
	}
	img.ID = id
	return nil
}

func (r *Repo) DeleteImage(ctx context.Context, id int64) (int64, error) {
	return r.deleteGuarded(ctx, imagesTable, id, nil)
}

/********** read paths **********/

func scanHotel(row rowScanner) (domain.Hotel, error) {
	var (
		h                                  domain.Hotel
		name, desc, street, email, contact sql.NullString
		cityFK, countryFK                  sql.NullInt64
		cityID, cityCountry                sql.NullInt64
		cityName                           sql.NullString
		countryID                          sql.NullInt64
		countryName, countryCode           sql.NullString
	)
	if err := row.Scan(
		&h.ID,
		&name, &desc, &street, &email, &contact,
		&cityFK, &countryFK,
		&cityID, &cityCountry, &cityName,
		&countryID, &countryName, &countryCode,
	); err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	h.Name, h.Description, h.Street = strPtr(name), strPtr(desc), strPtr(street)
	h.Email, h.Contact = strPtr(email), strPtr(contact)
	h.CityID, h.CountryID = int64Ptr(cityFK), int64Ptr(countryFK)
	if cityID.Valid {
		h.City = &domain.City{ID: cityID.Int64, CountryID: int64Ptr(cityCountry), Name: strPtr(cityName)}
	}
	if countryID.Valid {
		h.Country = &domain.Country{ID: countryID.Int64, Name: countryName.String, Code: countryCode.String}
	}
	return h, nil
}

// attachTags loads the tag links of hs in one query and fills TagIDs and Tags.
func (r *Repo) attachTags(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	ids := make([]int64, len(hs))
	at := make(map[int64]int, len(hs))
	for i, h := range hs {
		ids[i] = h.ID
		at[h.ID] = i
	}
	rows, err := r.db.QueryContext(ctx,
		selectHotelTagsPrefix+placeholders(len(ids))+" ORDER BY he.hotel_id, he.id", int64Args(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var hotelID int64
		var (
			e                       domain.ExperienceTag
			label, desc, coverImage sql.NullString
		)
		if err := rows.Scan(&hotelID, &e.ID, &label, &desc, &coverImage); err != nil {
			return err
		}
		e.Label, e.Description, e.CoverImage = strPtr(label), strPtr(desc), strPtr(coverImage)
		h := &hs[at[hotelID]]
		h.TagIDs = append(h.TagIDs, e.ID)
		h.Tags = append(h.Tags, e)
	}
	return rows.Err()
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelBundle, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, selectHotelSQL+" WHERE h.hotelid = ?", id))
	if err != nil {
		return domain.HotelBundle{}, err
	}
	hs := []domain.Hotel{h}
	if err := r.attachTags(ctx, hs); err != nil {
		return domain.HotelBundle{}, err
	}
	b := domain.HotelBundle{Hotel: hs[0]}
	if b.Items, err = r.listItems(ctx, id); err != nil {
		return domain.HotelBundle{}, err
	}
	if b.Amenities, err = r.ListAmenities(ctx, id); err != nil {
		return domain.HotelBundle{}, err
	}
	if b.Images, err = r.listImages(ctx, id); err != nil {
		return domain.HotelBundle{}, err
	}
	return b, nil
}

func (r *Repo) HotelExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM hotels WHERE hotelid = ?`, id)
}

func (r *Repo) ReservationItemExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM reservation_items WHERE reservation_item_id = ?`, id)
}

// ListHotels returns hotels in id order. A hotel matches the tag filter when it is
// linked to any of the requested tags.
func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	var (
		where []string
		args  []any
	)
	if len(q.TagIDs) > 0 {
		where = append(where, hasAnyTagSQL+placeholders(len(q.TagIDs))+")")
		args = append(args, int64Args(q.TagIDs)...)
	}
	if q.Name != nil {
		where = append(where, "h.name = ?")
		args = append(args, *q.Name)
	}
	if q.CityID != nil {
		where = append(where, "h.location_city_id = ?")
		args = append(args, *q.CityID)
	}
	query := selectHotelSQL
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY h.hotelid"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) listItems(ctx context.Context, hotelID int64) ([]domain.ReservationItem, error) {
	rows, err := r.db.QueryContext(ctx, selectItemsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReservationItem
	for rows.Next() {
		var (
			it       domain.ReservationItem
			owner    sql.NullInt64
			label    sql.NullString
			usd, lkr decimal.NullDecimal
		)
		if err := rows.Scan(&it.ID, &owner, &label, &usd, &lkr); err != nil {
			return nil, err
		}
		it.HotelID, it.Label, it.PriceUSD, it.PriceLKR = owner.Int64, strPtr(label), usd, lkr
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) ListAmenities(ctx context.Context, hotelID int64) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, selectAmenitiesSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Amenity
	for rows.Next() {
		var (
			a     domain.Amenity
			owner sql.NullInt64
			name  sql.NullString
		)
		if err := rows.Scan(&a.ID, &owner, &name); err != nil {
			return nil, err
		}
		a.HotelID, a.ItemName = owner.Int64, strPtr(name)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) listImages(ctx context.Context, hotelID int64) ([]domain.HotelImage, error) {
	rows, err := r.db.QueryContext(ctx, selectImagesSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelImage
	for rows.Next() {
		var (
			img   domain.HotelImage
			owner sql.NullInt64
			ref   sql.NullString
		)
		if err := rows.Scan(&img.ID, &owner, &ref); err != nil {
			return nil, err
		}
		img.HotelID, img.Image = owner.Int64, strPtr(ref)
		out = append(out, img)
	}
	return out, rows.Err()
}
