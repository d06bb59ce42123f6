package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts the booking and its add-on links. A unique violation
	// on the active technician slot index is reported as
	// ErrTechnicianUnavailable.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// ListByDate returns every booking on the date regardless of status.
	// The availability checker filters to active statuses itself.
	ListByDate(ctx context.Context, date string) ([]*Booking, error)

	ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Reschedule(ctx context.Context, id, date, slotTime string, technicianID *string) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, fromDate, toDate string) ([]*DailySummary, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const bookingColumns = "id, customer_id, treatment_id, date, time, duration_minutes, price, technician_id, status, note, created_at, updated_at"

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.TreatmentID, &b.Date, &b.Time,
		&b.DurationMinutes, &b.Price, &b.TechnicianID, &b.Status, &b.Note,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Insert("public.bookings").
		Columns("customer_id", "treatment_id", "date", "time", "duration_minutes", "price", "technician_id", "status", "note").
		Values(b.CustomerID, b.TreatmentID, b.Date, b.Time, b.DurationMinutes, b.Price, b.TechnicianID, b.Status, b.Note).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrTechnicianUnavailable
		}
		return fmt.Errorf("create booking failed: %w", err)
	}

	for _, addOnID := range b.AddOnIDs {
		query, args, err := psql.Insert("public.booking_addons").
			Columns("booking_id", "addon_id").
			Values(b.ID, addOnID).
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking add-on query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("create booking add-on failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}

	addOns, err := r.listAddOnIDs(ctx, []string{b.ID})
	if err != nil {
		return nil, err
	}
	b.AddOnIDs = addOns[b.ID]

	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "customer_id", "treatment_id", "date", "time",
		"duration_minutes", "price", "technician_id", "status", "note",
		"created_at", "updated_at", "count(*) OVER() as total_count",
	).From("public.bookings")

	if filter.Date != "" {
		query = query.Where(squirrel.Eq{"date": filter.Date})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.CustomerID != "" {
		query = query.Where(squirrel.Eq{"customer_id": filter.CustomerID})
	}
	if filter.TechnicianID != "" {
		query = query.Where(squirrel.Eq{"technician_id": filter.TechnicianID})
	}

	query = query.OrderBy("date DESC", "time ASC")

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var (
		bookings []*Booking
		total    int
	)
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.CustomerID, &b.TreatmentID, &b.Date, &b.Time,
			&b.DurationMinutes, &b.Price, &b.TechnicianID, &b.Status, &b.Note,
			&b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	if err := r.attachAddOnIDs(ctx, bookings); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *pgxRepository) ListByDate(ctx context.Context, date string) ([]*Booking, error) {
	return r.listWhere(ctx, squirrel.Eq{"date": date}, "time ASC")
}

func (r *pgxRepository) ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error) {
	return r.listWhere(ctx, squirrel.Eq{"customer_id": customerID}, "date DESC, time DESC")
}

func (r *pgxRepository) listWhere(ctx context.Context, pred squirrel.Eq, orderBy string) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(pred).
		OrderBy(orderBy).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}

	if err := r.attachAddOnIDs(ctx, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *pgxRepository) listAddOnIDs(ctx context.Context, bookingIDs []string) (map[string][]string, error) {
	if len(bookingIDs) == 0 {
		return map[string][]string{}, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("booking_id", "addon_id").
		From("public.booking_addons").
		Where(squirrel.Eq{"booking_id": bookingIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list booking add-ons query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list booking add-ons failed: %w", err)
	}
	defer rows.Close()

	result := map[string][]string{}
	for rows.Next() {
		var bookingID, addOnID string
		if err := rows.Scan(&bookingID, &addOnID); err != nil {
			return nil, fmt.Errorf("scan booking add-on failed: %w", err)
		}
		result[bookingID] = append(result[bookingID], addOnID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking add-ons failed: %w", err)
	}

	return result, nil
}

func (r *pgxRepository) attachAddOnIDs(ctx context.Context, bookings []*Booking) error {
	ids := make([]string, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}

	addOns, err := r.listAddOnIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		b.AddOnIDs = addOns[b.ID]
	}
	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id, status string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Reschedule(ctx context.Context, id, date, slotTime string, technicianID *string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("date", date).
		Set("time", slotTime).
		Set("technician_id", technicianID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reschedule booking query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrTechnicianUnavailable
		}
		return fmt.Errorf("reschedule booking failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Summary(ctx context.Context, fromDate, toDate string) ([]*DailySummary, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("date", "status", "count(*)").
		From("public.bookings").
		Where(squirrel.GtOrEq{"date": fromDate}).
		Where(squirrel.LtOrEq{"date": toDate}).
		GroupBy("date", "status").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking summary query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("booking summary failed: %w", err)
	}
	defer rows.Close()

	byDate := map[string]*DailySummary{}
	var order []string
	for rows.Next() {
		var (
			date, status string
			count        int
		)
		if err := rows.Scan(&date, &status, &count); err != nil {
			return nil, fmt.Errorf("scan booking summary failed: %w", err)
		}

		s, ok := byDate[date]
		if !ok {
			s = &DailySummary{Date: date, ByStatus: map[string]int{}}
			byDate[date] = s
			order = append(order, date)
		}
		s.ByStatus[status] = count
		s.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking summary failed: %w", err)
	}

	summaries := make([]*DailySummary, len(order))
	for i, date := range order {
		summaries[i] = byDate[date]
	}
	return summaries, nil
}
