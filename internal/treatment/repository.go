package treatment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, t *Treatment) error
	GetByID(ctx context.Context, id string) (*Treatment, error)
	List(ctx context.Context, filter Filter) ([]*Treatment, int, error)

	// Update persists the treatment row, and when replaceAddOns is true
	// swaps the full add-on list in the same transaction.
	Update(ctx context.Context, t *Treatment, replaceAddOns bool, addOns []AddOn) error

	UpdatePhoto(ctx context.Context, id, photoPath, thumbnailPath string) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, t *Treatment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create treatment failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Insert("public.treatments").
		Columns("name", "description", "price", "duration_minutes", "is_active", "sort_order").
		Values(t.Name, t.Description, t.Price, t.DurationMinutes, t.IsActive, t.SortOrder).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create treatment query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("create treatment failed: %w", err)
	}

	for i := range t.AddOns {
		t.AddOns[i].TreatmentID = t.ID

		query, args, err := psql.Insert("public.treatment_addons").
			Columns("treatment_id", "name", "price", "duration_minutes").
			Values(t.ID, t.AddOns[i].Name, t.AddOns[i].Price, t.AddOns[i].DurationMinutes).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create add-on query failed: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&t.AddOns[i].ID); err != nil {
			return fmt.Errorf("create add-on failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create treatment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Treatment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "description", "price", "duration_minutes",
		"is_active", "photo_path", "thumbnail_path", "sort_order",
		"created_at", "updated_at",
	).
		From("public.treatments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get treatment query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var t Treatment
	if err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.Price, &t.DurationMinutes,
		&t.IsActive, &t.PhotoPath, &t.ThumbnailPath, &t.SortOrder,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get treatment failed: %w", err)
	}

	addOns, err := r.listAddOns(ctx, []string{t.ID})
	if err != nil {
		return nil, err
	}
	t.AddOns = addOns[t.ID]

	return &t, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Treatment, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "description", "price", "duration_minutes",
		"is_active", "photo_path", "thumbnail_path", "sort_order",
		"created_at", "updated_at", "count(*) OVER() as total_count",
	).
		From("public.treatments")

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	query = query.OrderBy("sort_order ASC", "created_at ASC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list treatments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list treatments failed: %w", err)
	}
	defer rows.Close()

	var result []*Treatment
	var total int
	var ids []string

	for rows.Next() {
		var t Treatment
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Price, &t.DurationMinutes,
			&t.IsActive, &t.PhotoPath, &t.ThumbnailPath, &t.SortOrder,
			&t.CreatedAt, &t.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan treatment failed: %w", err)
		}
		result = append(result, &t)
		ids = append(ids, t.ID)
	}
	rows.Close()

	if len(ids) > 0 {
		addOns, err := r.listAddOns(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, t := range result {
			t.AddOns = addOns[t.ID]
		}
	}

	return result, total, nil
}

func (r *pgxRepository) listAddOns(ctx context.Context, treatmentIDs []string) (map[string][]AddOn, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "treatment_id", "name", "price", "duration_minutes").
		From("public.treatment_addons").
		Where(squirrel.Eq{"treatment_id": treatmentIDs}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list add-ons query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list add-ons failed: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]AddOn)
	for rows.Next() {
		var a AddOn
		if err := rows.Scan(&a.ID, &a.TreatmentID, &a.Name, &a.Price, &a.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan add-on failed: %w", err)
		}
		result[a.TreatmentID] = append(result[a.TreatmentID], a)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, t *Treatment, replaceAddOns bool, addOns []AddOn) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update treatment failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Update("public.treatments").
		Set("name", t.Name).
		Set("description", t.Description).
		Set("price", t.Price).
		Set("duration_minutes", t.DurationMinutes).
		Set("is_active", t.IsActive).
		Set("sort_order", t.SortOrder).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update treatment query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update treatment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	if replaceAddOns {
		query, args, err := psql.Delete("public.treatment_addons").
			Where(squirrel.Eq{"treatment_id": t.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete add-ons query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("delete add-ons failed: %w", err)
		}

		for _, a := range addOns {
			query, args, err := psql.Insert("public.treatment_addons").
				Columns("treatment_id", "name", "price", "duration_minutes").
				Values(t.ID, a.Name, a.Price, a.DurationMinutes).
				ToSql()
			if err != nil {
				return fmt.Errorf("build create add-on query failed: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("create add-on failed: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update treatment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdatePhoto(ctx context.Context, id, photoPath, thumbnailPath string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.treatments").
		Set("photo_path", photoPath).
		Set("thumbnail_path", thumbnailPath).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update treatment photo query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update treatment photo failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.treatments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete treatment query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete treatment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
