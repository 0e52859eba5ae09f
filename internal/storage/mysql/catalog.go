package mysql

import (
	"context"
	"database/sql"

	"nomad_hotel/internal/domain"
)

var (
	countriesTable   = table{name: "countries", pk: "countryid", entity: "country"}
	citiesTable      = table{name: "cities", pk: "cityid", entity: "city"}
	experiencesTable = table{name: "experiences", pk: "expid", entity: "experience"}
)

/********** countries **********/

func (r *Repo) CreateCountry(ctx context.Context, c *domain.Country) error {
	id, err := insertID(r.db.ExecContext(ctx, insertCountrySQL, c.Name, c.Code))
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func scanCountry(row rowScanner) (domain.Country, error) {
	var c domain.Country
	if err := row.Scan(&c.ID, &c.Name, &c.Code); err != nil {
		return domain.Country{}, mapErr(err)
	}
	return c, nil
}

func (r *Repo) GetCountry(ctx context.Context, id int64) (domain.Country, error) {
	return scanCountry(r.db.QueryRowContext(ctx, selectCountrySQL+" WHERE countryid = ?", id))
}

func (r *Repo) FindCountryByCode(ctx context.Context, code string) (domain.Country, error) {
	return scanCountry(r.db.QueryRowContext(ctx, selectCountrySQL+" WHERE country_code = ?", code))
}

func (r *Repo) ListCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := r.db.QueryContext(ctx, selectCountrySQL+" ORDER BY countryid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteCountry(ctx context.Context, id int64) error {
	_, err := r.deleteGuarded(ctx, countriesTable, id, countryDependents)
	return err
}

/********** cities **********/

func (r *Repo) CreateCity(ctx context.Context, c *domain.City) error {
	id, err := insertID(r.db.ExecContext(ctx, insertCitySQL, valInt64(c.CountryID), valStr(c.Name)))
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func scanCity(row rowScanner) (domain.City, error) {
	var (
		c       domain.City
		country sql.NullInt64
		name    sql.NullString
	)
	if err := row.Scan(&c.ID, &country, &name); err != nil {
		return domain.City{}, mapErr(err)
	}
	c.CountryID = int64Ptr(country)
	c.Name = strPtr(name)
	return c, nil
}

func (r *Repo) GetCity(ctx context.Context, id int64) (domain.City, error) {
	return scanCity(r.db.QueryRowContext(ctx, selectCitySQL+" WHERE cityid = ?", id))
}

func (r *Repo) FindCity(ctx context.Context, countryID int64, name string) (domain.City, error) {
	return scanCity(r.db.QueryRowContext(ctx,
		selectCitySQL+" WHERE country_id = ? AND city_name = ? ORDER BY cityid LIMIT 1", countryID, name))
}

func (r *Repo) ListCities(ctx context.Context, countryID *int64) ([]domain.City, error) {
	q := selectCitySQL
	var args []any
	if countryID != nil {
		q += " WHERE country_id = ?"
		args = append(args, *countryID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY cityid", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteCity(ctx context.Context, id int64) error {
	_, err := r.deleteGuarded(ctx, citiesTable, id, cityDependents)
	return err
}

/********** experiences **********/

func (r *Repo) CreateExperience(ctx context.Context, e *domain.ExperienceTag) error {
	id, err := insertID(r.db.ExecContext(ctx, insertExperienceSQL,
		valStr(e.Label), valStr(e.Description), valStr(e.CoverImage)))
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func scanExperience(row rowScanner) (domain.ExperienceTag, error) {
	var (
		e                       domain.ExperienceTag
		label, desc, coverImage sql.NullString
	)
	if err := row.Scan(&e.ID, &label, &desc, &coverImage); err != nil {
		return domain.ExperienceTag{}, mapErr(err)
	}
	e.Label, e.Description, e.CoverImage = strPtr(label), strPtr(desc), strPtr(coverImage)
	return e, nil
}

func (r *Repo) GetExperience(ctx context.Context, id int64) (domain.ExperienceTag, error) {
	return scanExperience(r.db.QueryRowContext(ctx, selectExperienceSQL+" WHERE expid = ?", id))
}

func (r *Repo) FindExperienceByLabel(ctx context.Context, label string) (domain.ExperienceTag, error) {
	return scanExperience(r.db.QueryRowContext(ctx,
		selectExperienceSQL+" WHERE exptag = ? ORDER BY expid LIMIT 1", label))
}

func (r *Repo) ListExperiences(ctx context.Context) ([]domain.ExperienceTag, error) {
	rows, err := r.db.QueryContext(ctx, selectExperienceSQL+" ORDER BY expid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExperienceTag
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteExperience drops the tag; hotel links go with it.
func (r *Repo) DeleteExperience(ctx context.Context, id int64) error {
	_, err := r.deleteGuarded(ctx, experiencesTable, id, nil)
	return err
}
