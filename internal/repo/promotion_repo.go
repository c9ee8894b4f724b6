package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"promotions/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by lookups that miss.
	ErrNotFound = errors.New("promotion not found")
	// ErrNoID rejects an update on a record the store never assigned.
	ErrNoID = errors.New("promotion has no id; call Create first")
	// ErrDataValidation wraps any store failure after rollback. Callers only
	// ever see its message, never the driver error structure.
	ErrDataValidation = errors.New("data validation error")
)

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrDataValidation, err)
}

// PromotionRepo is the persistence contract for promotions.
type PromotionRepo interface {
	Create(ctx context.Context, p domain.Promotion) (domain.Promotion, error)
	Update(ctx context.Context, p domain.Promotion) (domain.Promotion, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (domain.Promotion, error)
	FindAll(ctx context.Context) ([]domain.Promotion, error)
	FindByTitle(ctx context.Context, title string) ([]domain.Promotion, error)
	FindByPromoCode(ctx context.Context, code int64) ([]domain.Promotion, error)
	FindByPromoType(ctx context.Context, t domain.PromotionType) ([]domain.Promotion, error)
	FindByActive(ctx context.Context, active bool) ([]domain.Promotion, error)
	FindByFields(ctx context.Context, fields map[string]string) ([]domain.Promotion, error)
	RemoveAll(ctx context.Context) (int64, error)
}

// PGPromotionRepo stores promotions in Postgres. Every mutation runs in its
// own transaction and rolls back on failure, so partial writes are never
// observable.
type PGPromotionRepo struct {
	db *pgxpool.Pool
}

func NewPGPromotionRepo(db *pgxpool.Pool) *PGPromotionRepo {
	return &PGPromotionRepo{db: db}
}

// promo_value comes back as text so it round-trips through decimal without
// float conversion.
const promotionColumns = `id, title, description, promo_code, promo_type, promo_value::text, start_date, created_date, duration, active`

func scanPromotion(row pgx.Row) (domain.Promotion, error) {
	var (
		p        domain.Promotion
		typeName string
		value    string
		interval pgtype.Interval
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.PromoCode, &typeName, &value,
		&p.StartDate.Time, &p.CreatedDate.Time, &interval, &p.Active); err != nil {
		return domain.Promotion{}, err
	}
	p.PromoType = domain.PromotionType(typeName)
	v, err := decimal.NewFromString(value)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("promo_value: %w", err)
	}
	p.PromoValue = v
	p.Duration = fromInterval(interval)
	return p, nil
}

func toInterval(d domain.Duration) pgtype.Interval {
	return pgtype.Interval{
		Days:         int32(d.Days()),
		Microseconds: d.Clock().Microseconds(),
		Valid:        true,
	}
}

func fromInterval(iv pgtype.Interval) domain.Duration {
	days := int(iv.Months)*30 + int(iv.Days)
	return domain.NewDuration(days, time.Duration(iv.Microseconds)*time.Microsecond)
}

// Create persists p and returns it with the store-assigned id. Any id on p
// is ignored.
func (r *PGPromotionRepo) Create(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Promotion{}, storeErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO promotions (title, description, promo_code, promo_type, promo_value, start_date, created_date, duration, active)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
		RETURNING `+promotionColumns,
		p.Title, p.Description, p.PromoCode, p.PromoType.String(), p.PromoValue.String(),
		p.StartDate.Time, p.CreatedDate.Time, toInterval(p.Duration), p.Active,
	)
	out, err := scanPromotion(row)
	if err != nil {
		return domain.Promotion{}, storeErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Promotion{}, storeErr(err)
	}
	return out, nil
}

// Update commits the already-mutated record. A record without an id fails
// before the store is touched.
func (r *PGPromotionRepo) Update(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	if p.ID == 0 {
		return domain.Promotion{}, ErrNoID
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Promotion{}, storeErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		UPDATE promotions
		SET title = $2, description = $3, promo_code = $4, promo_type = $5, promo_value = $6::numeric,
		    start_date = $7, created_date = $8, duration = $9, active = $10
		WHERE id = $1
		RETURNING `+promotionColumns,
		p.ID, p.Title, p.Description, p.PromoCode, p.PromoType.String(), p.PromoValue.String(),
		p.StartDate.Time, p.CreatedDate.Time, toInterval(p.Duration), p.Active,
	)
	out, err := scanPromotion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Promotion{}, ErrNotFound
	}
	if err != nil {
		return domain.Promotion{}, storeErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Promotion{}, storeErr(err)
	}
	return out, nil
}

// Delete removes the record if present. Deleting an absent id is a no-op.
func (r *PGPromotionRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id); err != nil {
		return storeErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *PGPromotionRepo) Find(ctx context.Context, id int64) (domain.Promotion, error) {
	row := r.db.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id)
	p, err := scanPromotion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Promotion{}, ErrNotFound
	}
	return p, err
}

func (r *PGPromotionRepo) FindAll(ctx context.Context) ([]domain.Promotion, error) {
	return r.findWhere(ctx, "")
}

func (r *PGPromotionRepo) FindByTitle(ctx context.Context, title string) ([]domain.Promotion, error) {
	return r.findWhere(ctx, "title = $1", title)
}

func (r *PGPromotionRepo) FindByPromoCode(ctx context.Context, code int64) ([]domain.Promotion, error) {
	return r.findWhere(ctx, "promo_code = $1", code)
}

func (r *PGPromotionRepo) FindByPromoType(ctx context.Context, t domain.PromotionType) ([]domain.Promotion, error) {
	return r.findWhere(ctx, "promo_type = $1", t.String())
}

func (r *PGPromotionRepo) FindByActive(ctx context.Context, active bool) ([]domain.Promotion, error) {
	return r.findWhere(ctx, "active = $1", active)
}

// FindByFields conjoins an equality predicate per entry (logical AND). Each
// raw value is coerced against the field registry first; any bad name or
// value fails the whole call. Column names come from the registry whitelist,
// never from the caller.
func (r *PGPromotionRepo) FindByFields(ctx context.Context, fields map[string]string) ([]domain.Promotion, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	clauses := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for i, name := range names {
		val, err := domain.CoerceField(name, fields[name])
		if err != nil {
			return nil, err
		}
		placeholder := fmt.Sprintf("$%d", i+1)
		switch v := val.(type) {
		case decimal.Decimal:
			clauses = append(clauses, fmt.Sprintf("%s = %s::numeric", name, placeholder))
			args = append(args, v.String())
		case domain.Date:
			clauses = append(clauses, fmt.Sprintf("%s = %s", name, placeholder))
			args = append(args, v.Time)
		case domain.Duration:
			clauses = append(clauses, fmt.Sprintf("%s = %s", name, placeholder))
			args = append(args, toInterval(v))
		case domain.PromotionType:
			clauses = append(clauses, fmt.Sprintf("%s = %s", name, placeholder))
			args = append(args, v.String())
		default:
			clauses = append(clauses, fmt.Sprintf("%s = %s", name, placeholder))
			args = append(args, v)
		}
	}
	return r.findWhere(ctx, strings.Join(clauses, " AND "), args...)
}

// RemoveAll deletes every promotion and reports how many rows went away.
// Routing keeps it out of reach outside test mode.
func (r *PGPromotionRepo) RemoveAll(ctx context.Context) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, storeErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM promotions`)
	if err != nil {
		return 0, storeErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, storeErr(err)
	}
	return tag.RowsAffected(), nil
}

func (r *PGPromotionRepo) findWhere(ctx context.Context, clause string, args ...any) ([]domain.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions`
	if clause != "" {
		query += ` WHERE ` + clause
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
