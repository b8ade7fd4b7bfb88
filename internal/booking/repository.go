package booking

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
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
)

type Repository interface {
	// Create inserts the booking inside one transaction that locks the car
	// row and re-checks the hard-conflict overlap, so at most one booking
	// can win a given slot. Losers get a *ConflictError.
	Create(ctx context.Context, b *Booking) error

	// Confirm promotes the booking under the same car-row lock, re-checking
	// the overlap so two pending holds on one slot cannot both win. The
	// update only applies while the row still carries the expected status;
	// otherwise the caller gets ErrInvalidTransition.
	Confirm(ctx context.Context, b *Booking, expected Status) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByRenter(ctx context.Context, renterID string, page, pageSize int) ([]*Booking, int, error)
	ListByCar(ctx context.Context, carID string, statuses []Status) ([]*Booking, error)
	ListByCarWithRenter(ctx context.Context, carID string) ([]*Booking, error)
	FindConflicts(ctx context.Context, carID string, start, end dateonly.Date, statuses []Status) ([]string, error)
	// UpdateStatus writes the booking's status fields, guarded on the row
	// still carrying the expected status so a racing transition cannot be
	// silently overwritten.
	UpdateStatus(ctx context.Context, b *Booking, expected Status) error
	Delete(ctx context.Context, id string) error

	ListDueToStart(ctx context.Context, today dateonly.Date) ([]*Booking, error)
	ListDueToComplete(ctx context.Context, today dateonly.Date) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingSelectColumns = []string{
	"b.id", "b.car_id", "b.renter_id", "b.start_date", "b.end_date",
	"b.total_days", "b.total_price", "b.status", "b.payment_status",
	"b.payment_intent_id", "b.cancellation_reason", "b.created_at", "b.updated_at",
	"c.owner_id", "c.brand", "c.model", "c.daily_price", "p.photo_url",
}

const carJoin = "public.cars c ON b.car_id = c.id"
const mainPhotoJoin = "public.car_photos p ON p.car_id = c.id AND p.is_main = true"

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	var lastErr error
	// One bounded retry on transient transaction aborts.
	for attempt := 0; attempt < 2; attempt++ {
		err := r.createOnce(ctx, b)
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			lastErr = err
			continue
		}
		return err
	}
	return fmt.Errorf("create booking did not settle: %w", lastErr)
}

func (r *pgxRepository) createOnce(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the car row for the duration of the check and insert. This
	// serializes concurrent submissions per vehicle and doubles as the
	// existence and availability gate.
	var isAvailable bool
	err = tx.QueryRow(ctx,
		`SELECT is_available FROM public.cars WHERE id = $1 FOR UPDATE`,
		b.CarID,
	).Scan(&isAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCarNotFound
		}
		return fmt.Errorf("lock car row failed: %w", err)
	}
	if !isAvailable {
		return ErrVehicleUnavailable
	}

	// Inclusive-bounds overlap against the hard-conflict set, under the lock.
	rows, err := tx.Query(ctx, `
		SELECT id FROM public.bookings
		WHERE car_id = $1 AND status = ANY($2)
			AND start_date <= $3 AND end_date >= $4
		ORDER BY start_date
	`, b.CarID, statusStrings(HardConflictStatuses), b.EndDate.Time(), b.StartDate.Time())
	if err != nil {
		return fmt.Errorf("overlap check failed: %w", err)
	}

	var conflicting []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan conflicting booking failed: %w", err)
		}
		conflicting = append(conflicting, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("overlap check rows failed: %w", err)
	}
	if len(conflicting) > 0 {
		return &ConflictError{ConflictingIDs: conflicting}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO public.bookings
			(car_id, renter_id, start_date, end_date, total_days, total_price,
			 status, payment_status, payment_intent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		b.CarID, b.RenterID, b.StartDate.Time(), b.EndDate.Time(),
		b.TotalDays, b.TotalPrice, string(b.Status), string(b.PaymentStatus),
		b.PaymentIntentID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Confirm(ctx context.Context, b *Booking, expected Status) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := r.confirmOnce(ctx, b, expected)
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			lastErr = err
			continue
		}
		return err
	}
	return fmt.Errorf("confirm booking did not settle: %w", lastErr)
}

func (r *pgxRepository) confirmOnce(ctx context.Context, b *Booking, expected Status) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin confirm booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT 1 FROM public.cars WHERE id = $1 FOR UPDATE`, b.CarID,
	); err != nil {
		return fmt.Errorf("lock car row failed: %w", err)
	}

	// Another booking may have claimed the slot since this one went pending.
	rows, err := tx.Query(ctx, `
		SELECT id FROM public.bookings
		WHERE car_id = $1 AND id <> $2 AND status = ANY($3)
			AND start_date <= $4 AND end_date >= $5
		ORDER BY start_date
	`, b.CarID, b.ID, statusStrings(HardConflictStatuses), b.EndDate.Time(), b.StartDate.Time())
	if err != nil {
		return fmt.Errorf("confirm overlap check failed: %w", err)
	}

	var conflicting []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan conflicting booking failed: %w", err)
		}
		conflicting = append(conflicting, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("confirm overlap check rows failed: %w", err)
	}
	if len(conflicting) > 0 {
		return &ConflictError{ConflictingIDs: conflicting}
	}

	// Guard on the status read before the transaction; a cancel that landed
	// in between makes the update match nothing instead of resurrecting a
	// terminal booking.
	err = tx.QueryRow(ctx, `
		UPDATE public.bookings
		SET status = $1, payment_status = $2, updated_at = now()
		WHERE id = $3 AND status = $4
		RETURNING updated_at
	`, string(b.Status), string(b.PaymentStatus), b.ID, string(expected)).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidTransition
		}
		return fmt.Errorf("confirm booking update failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit confirm booking failed: %w", err)
	}
	return nil
}

// isRetryable matches the transient transaction-abort classes worth one retry.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingSelectColumns...).
		From("public.bookings b").
		Join(carJoin).
		LeftJoin(mainPhotoJoin).
		Where(squirrel.Eq{"b.id": id}).
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
	return b, nil
}

func (r *pgxRepository) ListByRenter(ctx context.Context, renterID string, page, pageSize int) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append(append([]string{}, bookingSelectColumns...), "count(*) OVER() as total_count")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query, args, err := psql.Select(cols...).
		From("public.bookings b").
		Join(carJoin).
		LeftJoin(mainPhotoJoin).
		Where(squirrel.Eq{"b.renter_id": renterID}).
		OrderBy("b.created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBookingRows(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings rows failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) ListByCar(ctx context.Context, carID string, statuses []Status) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingSelectColumns...).
		From("public.bookings b").
		Join(carJoin).
		LeftJoin(mainPhotoJoin).
		Where(squirrel.Eq{"b.car_id": carID}).
		OrderBy("b.start_date ASC")

	if len(statuses) > 0 {
		query = query.Where(squirrel.Eq{"b.status": statusStrings(statuses)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list car bookings query failed: %w", err)
	}

	return r.queryBookings(ctx, sql, args)
}

func (r *pgxRepository) ListByCarWithRenter(ctx context.Context, carID string) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append(append([]string{}, bookingSelectColumns...),
		"u.first_name", "u.last_name", "u.email", "u.phone")

	query, args, err := psql.Select(cols...).
		From("public.bookings b").
		Join(carJoin).
		LeftJoin(mainPhotoJoin).
		Join("public.users u ON b.renter_id = u.id").
		Where(squirrel.Eq{"b.car_id": carID}).
		OrderBy("b.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build owner bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list owner bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBookingWithRenter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan owner booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("owner bookings rows failed: %w", err)
	}

	return bookings, nil
}

func (r *pgxRepository) FindConflicts(ctx context.Context, carID string, start, end dateonly.Date, statuses []Status) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM public.bookings
		WHERE car_id = $1 AND status = ANY($2)
			AND start_date <= $3 AND end_date >= $4
		ORDER BY start_date
	`, carID, statusStrings(statuses), end.Time(), start.Time())
	if err != nil {
		return nil, fmt.Errorf("find conflicts failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan conflict id failed: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find conflicts rows failed: %w", err)
	}

	return ids, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking, expected Status) error {
	const query = `
		UPDATE public.bookings
		SET status = $1, payment_status = $2, cancellation_reason = $3, updated_at = now()
		WHERE id = $4 AND status = $5
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		string(b.Status), string(b.PaymentStatus), b.CancellationReason, b.ID, string(expected),
	).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidTransition
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListDueToStart(ctx context.Context, today dateonly.Date) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingSelectColumns...).
		From("public.bookings b").
		Join(carJoin).
		LeftJoin(mainPhotoJoin).
		Where(squirrel.Eq{"b.status": statusStrings([]Status{StatusConfirmed, StatusPaid})}).
		Where(squirrel.LtOrEq{"b.start_date": today.Time()}).
		OrderBy("b.start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due-to-start query failed: %w", err)
	}

	return r.queryBookings(ctx, query, args)
}

func (r *pgxRepository) ListDueToComplete(ctx context.Context, today dateonly.Date) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingSelectColumns...).
		From("public.bookings b").
		Join(carJoin).
		LeftJoin(mainPhotoJoin).
		Where(squirrel.Eq{"b.status": string(StatusActive)}).
		Where(squirrel.Lt{"b.end_date": today.Time()}).
		OrderBy("b.end_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due-to-complete query failed: %w", err)
	}

	return r.queryBookings(ctx, query, args)
}

func (r *pgxRepository) queryBookings(ctx context.Context, sql string, args []interface{}) ([]*Booking, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBookingRows(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings rows failed: %w", err)
	}

	return bookings, nil
}

func bookingScanTargets(b *Booking, start, end *time.Time) []interface{} {
	return []interface{}{
		&b.ID, &b.CarID, &b.RenterID, start, end,
		&b.TotalDays, &b.TotalPrice, &b.Status, &b.PaymentStatus,
		&b.PaymentIntentID, &b.CancellationReason, &b.CreatedAt, &b.UpdatedAt,
		&b.CarOwnerID, &b.CarBrand, &b.CarModel, &b.CarDailyPrice, &b.CarMainPhotoURL,
	}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var start, end time.Time
	if err := row.Scan(bookingScanTargets(&b, &start, &end)...); err != nil {
		return nil, err
	}
	b.StartDate = dateonly.FromTime(start)
	b.EndDate = dateonly.FromTime(end)
	return &b, nil
}

func scanBookingRows(rows pgx.Rows, total *int) (*Booking, error) {
	var b Booking
	var start, end time.Time
	targets := bookingScanTargets(&b, &start, &end)
	if total != nil {
		targets = append(targets, total)
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}
	b.StartDate = dateonly.FromTime(start)
	b.EndDate = dateonly.FromTime(end)
	return &b, nil
}

func scanBookingWithRenter(rows pgx.Rows) (*Booking, error) {
	var b Booking
	var start, end time.Time
	targets := bookingScanTargets(&b, &start, &end)
	targets = append(targets, &b.RenterFirstName, &b.RenterLastName, &b.RenterEmail, &b.RenterPhone)
	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}
	b.StartDate = dateonly.FromTime(start)
	b.EndDate = dateonly.FromTime(end)
	return &b, nil
}
