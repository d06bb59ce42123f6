package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByLineUserID(ctx context.Context, lineUserID string) (*Customer, error)
	List(ctx context.Context, filter Filter) ([]*Customer, int, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) error
	RecordVisit(ctx context.Context, id string, visitedAt time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const customerColumns = "id, line_user_id, display_name, phone, note, visit_count, last_visit_at, created_at, updated_at"

func (r *pgxRepository) Create(ctx context.Context, c *Customer) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.customers").
		Columns("line_user_id", "display_name", "phone", "note").
		Values(c.LineUserID, c.DisplayName, c.Phone, c.Note).
		Suffix("RETURNING id, visit_count, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create customer query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.VisitCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrLineUserExists
		}
		return fmt.Errorf("create customer failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) getBy(ctx context.Context, pred squirrel.Eq) (*Customer, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(customerColumns).
		From("public.customers").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get customer query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var c Customer
	if err := row.Scan(
		&c.ID, &c.LineUserID, &c.DisplayName, &c.Phone, &c.Note,
		&c.VisitCount, &c.LastVisitAt, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get customer failed: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Customer, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByLineUserID(ctx context.Context, lineUserID string) (*Customer, error) {
	return r.getBy(ctx, squirrel.Eq{"line_user_id": lineUserID})
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Customer, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(customerColumns + ", count(*) OVER() as total_count").
		From("public.customers")

	if filter.Keyword != "" {
		query = query.Where(squirrel.Or{
			squirrel.ILike{"display_name": "%" + filter.Keyword + "%"},
			squirrel.ILike{"phone": "%" + filter.Keyword + "%"},
		})
	}

	query = query.OrderBy("created_at DESC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list customers query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers failed: %w", err)
	}
	defer rows.Close()

	var result []*Customer
	var total int

	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.LineUserID, &c.DisplayName, &c.Phone, &c.Note,
			&c.VisitCount, &c.LastVisitAt, &c.CreatedAt, &c.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan customer failed: %w", err)
		}
		result = append(result, &c)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Customer) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.customers").
		Set("display_name", c.DisplayName).
		Set("phone", c.Phone).
		Set("note", c.Note).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update customer query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update customer failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete customer query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete customer failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) RecordVisit(ctx context.Context, id string, visitedAt time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.customers").
		Set("visit_count", squirrel.Expr("visit_count + 1")).
		Set("last_visit_at", visitedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record visit query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("record visit failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
