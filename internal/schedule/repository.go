package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Get(ctx context.Context) (*Config, error)

	// Save persists the configuration as the single settings row,
	// inserting it on first save.
	Save(ctx context.Context, cfg *Config) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Get(ctx context.Context) (*Config, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "time_slots", "weekly", "holiday_dates",
		"buffer_minutes", "use_technician_assignment", "default_capacity",
	).
		From("public.schedule_settings").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get schedule settings query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var (
		cfg          Config
		slotsJSON    []byte
		weeklyJSON   []byte
		holidaysJSON []byte
	)
	if err := row.Scan(
		&cfg.ID, &slotsJSON, &weeklyJSON, &holidaysJSON,
		&cfg.BufferMinutes, &cfg.UseTechnicianAssignment, &cfg.DefaultCapacity,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get schedule settings failed: %w", err)
	}

	if err := json.Unmarshal(slotsJSON, &cfg.TimeSlots); err != nil {
		return nil, fmt.Errorf("decode time slots failed: %w", err)
	}
	if err := json.Unmarshal(weeklyJSON, &cfg.Weekly); err != nil {
		return nil, fmt.Errorf("decode weekly schedule failed: %w", err)
	}
	if err := json.Unmarshal(holidaysJSON, &cfg.HolidayDates); err != nil {
		return nil, fmt.Errorf("decode holiday dates failed: %w", err)
	}

	return &cfg, nil
}

func (r *pgxRepository) Save(ctx context.Context, cfg *Config) error {
	slotsJSON, err := json.Marshal(cfg.TimeSlots)
	if err != nil {
		return fmt.Errorf("encode time slots failed: %w", err)
	}
	weeklyJSON, err := json.Marshal(cfg.Weekly)
	if err != nil {
		return fmt.Errorf("encode weekly schedule failed: %w", err)
	}
	holidaysJSON, err := json.Marshal(cfg.HolidayDates)
	if err != nil {
		return fmt.Errorf("encode holiday dates failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// Single-row table: update the existing row or insert the first one.
	query, args, err := psql.Update("public.schedule_settings").
		Set("time_slots", slotsJSON).
		Set("weekly", weeklyJSON).
		Set("holiday_dates", holidaysJSON).
		Set("buffer_minutes", cfg.BufferMinutes).
		Set("use_technician_assignment", cfg.UseTechnicianAssignment).
		Set("default_capacity", cfg.DefaultCapacity).
		Set("updated_at", squirrel.Expr("now()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update schedule settings query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&cfg.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update schedule settings failed: %w", err)
	}

	query, args, err = psql.Insert("public.schedule_settings").
		Columns(
			"time_slots", "weekly", "holiday_dates",
			"buffer_minutes", "use_technician_assignment", "default_capacity",
		).
		Values(
			slotsJSON, weeklyJSON, holidaysJSON,
			cfg.BufferMinutes, cfg.UseTechnicianAssignment, cfg.DefaultCapacity,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert schedule settings query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&cfg.ID); err != nil {
		return fmt.Errorf("insert schedule settings failed: %w", err)
	}
	return nil
}
