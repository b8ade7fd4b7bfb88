package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateProfile(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxUserRepository{
		pool: pool,
	}
}

const userColumns = `
	id, email, password_hash, first_name, last_name, phone,
	date_of_birth, driver_license_number, driver_license_issue_date,
	driver_license_expiry_date, address, passport_number, avatar_url,
	is_verified, is_active, is_admin, created_at, updated_at, last_login_at
`

func (r *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM public.users WHERE email = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByEmail query failed: %w", err)
	}
	return u, nil
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM public.users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByID query failed: %w", err)
	}
	return u, nil
}

func (r *pgxUserRepository) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO public.users (email, password_hash, first_name, last_name, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("Create user failed: %w", err)
	}

	return nil
}

func (r *pgxUserRepository) UpdateProfile(ctx context.Context, u *User) error {
	const query = `
		UPDATE public.users
		SET first_name = $1, last_name = $2, phone = $3, date_of_birth = $4,
			driver_license_number = $5, driver_license_issue_date = $6,
			driver_license_expiry_date = $7, address = $8, passport_number = $9,
			updated_at = now()
		WHERE id = $10
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		u.FirstName,
		u.LastName,
		u.Phone,
		dateArg(u.DateOfBirth),
		u.DriverLicenseNumber,
		dateArg(u.DriverLicenseIssueDate),
		dateArg(u.DriverLicenseExpiry),
		u.Address,
		u.PassportNumber,
		u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("UpdateProfile failed: %w", err)
	}

	return nil
}

func (r *pgxUserRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	const query = `
		UPDATE public.users
		SET last_login_at = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("UpdateLastLogin failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// scanUser reads a full user row, converting nullable date columns into
// dateonly values.
func scanUser(row pgx.Row) (*User, error) {
	var u User
	var dob, licenseIssue, licenseExpiry *time.Time

	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&dob,
		&u.DriverLicenseNumber,
		&licenseIssue,
		&licenseExpiry,
		&u.Address,
		&u.PassportNumber,
		&u.AvatarURL,
		&u.IsVerified,
		&u.IsActive,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLoginAt,
	); err != nil {
		return nil, err
	}

	u.DateOfBirth = datePtr(dob)
	u.DriverLicenseIssueDate = datePtr(licenseIssue)
	u.DriverLicenseExpiry = datePtr(licenseExpiry)

	return &u, nil
}

func datePtr(t *time.Time) *dateonly.Date {
	if t == nil {
		return nil
	}
	d := dateonly.FromTime(*t)
	return &d
}

func dateArg(d *dateonly.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}
