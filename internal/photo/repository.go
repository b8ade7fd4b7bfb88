package photo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, id string) (*Photo, error)
	ListByCar(ctx context.Context, carID string) ([]*Photo, error)
	CountByCar(ctx context.Context, carID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Photo) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.car_photos").
		Columns("car_id", "photo_url", "is_main", "display_order").
		Values(p.CarID, p.PhotoURL, p.IsMain, p.DisplayOrder).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create photo query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("create photo failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Photo, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "car_id", "photo_url", "is_main", "display_order", "created_at").
		From("public.car_photos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get photo query failed: %w", err)
	}

	var p Photo
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.CarID, &p.PhotoURL, &p.IsMain, &p.DisplayOrder, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get photo failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) ListByCar(ctx context.Context, carID string) ([]*Photo, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "car_id", "photo_url", "is_main", "display_order", "created_at").
		From("public.car_photos").
		Where(squirrel.Eq{"car_id": carID}).
		OrderBy("is_main DESC", "display_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list photos query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photos failed: %w", err)
	}
	defer rows.Close()

	var photos []*Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.CarID, &p.PhotoURL, &p.IsMain, &p.DisplayOrder, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo failed: %w", err)
		}
		photos = append(photos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list photos rows failed: %w", err)
	}

	return photos, nil
}

func (r *pgxRepository) CountByCar(ctx context.Context, carID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.car_photos").
		Where(squirrel.Eq{"car_id": carID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count photos query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count photos failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.car_photos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete photo query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete photo failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
