package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	drv "github.com/go-sql-driver/mysql"

	"nomad_hotel/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}
func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
func boolPtr(n sql.NullBool) *bool {
	if !n.Valid {
		return nil
	}
	v := n.Bool
	return &v
}
func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	v := n.Time.UTC()
	return &v
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

// Repo implements the catalogue, hotel and booking repositories on MySQL.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var (
	_ domain.CatalogRepository = (*Repo)(nil)
	_ domain.HotelRepository   = (*Repo)(nil)
	_ domain.BookingRepository = (*Repo)(nil)
)

func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// table describes a row-owning table for guarded deletes. owner, when set, names
// a column whose value is reported back (the parent hotel of a child row).
type table struct {
	name   string
	pk     string
	owner  string
	entity string
}

// lockRow takes a row lock on id and returns the owner column when t has one.
func lockRow(ctx context.Context, tx *sql.Tx, t table, id int64) (int64, error) {
	col := t.pk
	if t.owner != "" {
		col = t.owner
	}
	var v sql.NullInt64
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? FOR UPDATE", col, t.name, t.pk)
	if err := tx.QueryRowContext(ctx, q, id).Scan(&v); err != nil {
		return 0, err
	}
	return v.Int64, nil
}

// deleteGuarded removes one row after checking that no dependent row still points
// at it. The row is locked for the duration of the check.
func (r *Repo) deleteGuarded(ctx context.Context, t table, id int64, deps []dependent) (int64, error) {
	var owner int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if owner, err = lockRow(ctx, tx, t, id); err != nil {
			return err
		}
		for _, d := range deps {
			var one int
			err := tx.QueryRowContext(ctx, d.query, id).Scan(&one)
			if err == nil {
				return &domain.ReferenceError{Entity: t.entity, ID: id, Dependent: d.table}
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.name, t.pk), id)
		return err
	})
	if err != nil {
		return 0, attribute(mapErr(err), t, id)
	}
	return owner, nil
}

// attribute names the row being deleted in a reference error raised by the FK
// constraint itself, which only reports the child table.
func attribute(err error, t table, id int64) error {
	var re *domain.ReferenceError
	if errors.As(err, &re) && re.ID == 0 {
		re.Entity, re.ID = t.entity, id
	}
	return err
}

// updateRow runs an UPDATE on a row that must exist.
func (r *Repo) updateRow(ctx context.Context, t table, id int64, query string, args ...any) error {
	return mapErr(r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := lockRow(ctx, tx, t, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}))
}

func (r *Repo) exists(ctx context.Context, query string, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func insertID(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

func placeholders(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?,", n), ",") + ")"
}

func int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func withPage(q string, pg domain.PageQuery, args []any) (string, []any) {
	if pg.Limit <= 0 {
		return q, args
	}
	q += " LIMIT ? OFFSET ?"
	return q, append(args, pg.Limit, max(pg.Offset, 0))
}

/********** driver error mapping **********/

const (
	erDupEntry        = 1062
	erRowIsReferenced = 1451
	erNoReferencedRow = 1452
)

var (
	dupRe      = regexp.MustCompile(`Duplicate entry '(.*)' for key '(?:[^.']+\.)?([^']+)'`)
	parentRe   = regexp.MustCompile("fails \\(`[^`]+`\\.`([^`]+)`")
	fkColumnRe = regexp.MustCompile("FOREIGN KEY \\(`([^`]+)`\\)")
)

// wire names of foreign key columns whose JSON field is not the column minus "_id"
var fkFields = map[string]string{
	"reservation_item_id": "reservationItem",
}

// mapErr translates driver errors into domain errors. Service-level checks catch
// these cases first; the constraints are the backstop for concurrent writers.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *drv.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case erDupEntry:
		ue := &domain.UniqueError{}
		if m := dupRe.FindStringSubmatch(me.Message); m != nil {
			ue.Value, ue.Field = m[1], m[2]
		}
		return ue
	case erRowIsReferenced:
		re := &domain.ReferenceError{Entity: "row"}
		if m := parentRe.FindStringSubmatch(me.Message); m != nil {
			re.Dependent = m[1]
		}
		return re
	case erNoReferencedRow:
		field := domain.NonFieldErrors
		if m := fkColumnRe.FindStringSubmatch(me.Message); m != nil {
			field = fkField(m[1])
		}
		return domain.NewValidationError(field, "Invalid pk - object does not exist.")
	}
	return err
}

func fkField(col string) string {
	if f, ok := fkFields[col]; ok {
		return f
	}
	return strings.TrimSuffix(col, "_id")
}
