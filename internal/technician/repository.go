package technician

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, t *Technician) error
	GetByID(ctx context.Context, id string) (*Technician, error)
	List(ctx context.Context, filter Filter) ([]*Technician, int, error)
	Update(ctx context.Context, t *Technician) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, t *Technician) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.technicians").
		Columns("name", "specialty", "status", "sort_order").
		Values(t.Name, t.Specialty, t.Status, t.SortOrder).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create technician query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Technician, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "specialty", "status", "sort_order", "created_at").
		From("public.technicians").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get technician query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var t Technician
	if err := row.Scan(&t.ID, &t.Name, &t.Specialty, &t.Status, &t.SortOrder, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get technician failed: %w", err)
	}
	return &t, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Technician, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "name", "specialty", "status", "sort_order", "created_at", "count(*) OVER() as total_count").
		From("public.technicians")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	query = query.OrderBy("sort_order ASC", "created_at ASC")

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
		return nil, 0, fmt.Errorf("build list technicians query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list technicians failed: %w", err)
	}
	defer rows.Close()

	var result []*Technician
	var total int

	for rows.Next() {
		var t Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.Specialty, &t.Status, &t.SortOrder, &t.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan technician failed: %w", err)
		}
		result = append(result, &t)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, t *Technician) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.technicians").
		Set("name", t.Name).
		Set("specialty", t.Specialty).
		Set("status", t.Status).
		Set("sort_order", t.SortOrder).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update technician query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update technician failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.technicians").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete technician query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete technician failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
