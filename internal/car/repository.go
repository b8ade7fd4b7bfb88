package car

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Car) error
	GetByID(ctx context.Context, id string) (*Car, error)
	List(ctx context.Context, filter Filter) ([]*Car, int, error)
	Update(ctx context.Context, c *Car) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var carSelectColumns = []string{
	"c.id", "c.owner_id", "c.brand", "c.model", "c.year", "c.license_plate",
	"c.vin", "c.color", "c.category", "c.car_class", "c.seats", "c.doors",
	"c.fuel_type", "c.transmission", "c.fuel_consumption", "c.engine_capacity",
	"c.horsepower", "c.description", "c.daily_price", "c.address",
	"c.is_available", "c.created_at", "c.updated_at",
	"p.photo_url",
}

// mainPhotoJoin attaches the car's main photo when it has one.
const mainPhotoJoin = "public.car_photos p ON p.car_id = c.id AND p.is_main = true"

func (r *pgxRepository) Create(ctx context.Context, c *Car) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.cars").
		Columns(
			"owner_id", "brand", "model", "year", "license_plate", "vin",
			"color", "category", "car_class", "seats", "doors", "fuel_type",
			"transmission", "fuel_consumption", "engine_capacity", "horsepower",
			"description", "daily_price", "address", "is_available",
		).
		Values(
			c.OwnerID, c.Brand, c.Model, c.Year, c.LicensePlate, c.VIN,
			c.Color, c.Category, c.CarClass, c.Seats, c.Doors, c.FuelType,
			c.Transmission, c.FuelConsumption, c.EngineCapacity, c.Horsepower,
			c.Description, c.DailyPrice, c.Address, c.IsAvailable,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create car query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("create car failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Car, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(carSelectColumns...).
		From("public.cars c").
		LeftJoin(mainPhotoJoin).
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get car query failed: %w", err)
	}

	c, err := scanCar(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get car failed: %w", err)
	}
	return c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Car, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append(append([]string{}, carSelectColumns...), "count(*) OVER() as total_count")

	query := psql.Select(cols...).
		From("public.cars c").
		LeftJoin(mainPhotoJoin).
		Where(squirrel.Eq{"c.is_available": true})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"c.brand": pattern},
			squirrel.ILike{"c.model": pattern},
		})
	}
	if filter.Transmission != "" {
		query = query.Where(squirrel.Eq{"c.transmission": filter.Transmission})
	}
	if filter.FuelType != "" {
		query = query.Where(squirrel.Eq{"c.fuel_type": filter.FuelType})
	}
	if filter.CarClass != "" {
		query = query.Where(squirrel.Eq{"c.car_class": filter.CarClass})
	}

	query = query.OrderBy("c.daily_price ASC")

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
		return nil, 0, fmt.Errorf("build list cars query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cars failed: %w", err)
	}
	defer rows.Close()

	var cars []*Car
	var total int

	for rows.Next() {
		c, err := scanCarRows(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan car failed: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list cars rows failed: %w", err)
	}

	return cars, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Car) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.cars").
		SetMap(map[string]interface{}{
			"brand":            c.Brand,
			"model":            c.Model,
			"year":             c.Year,
			"license_plate":    c.LicensePlate,
			"vin":              c.VIN,
			"color":            c.Color,
			"category":         c.Category,
			"car_class":        c.CarClass,
			"seats":            c.Seats,
			"doors":            c.Doors,
			"fuel_type":        c.FuelType,
			"transmission":     c.Transmission,
			"fuel_consumption": c.FuelConsumption,
			"engine_capacity":  c.EngineCapacity,
			"horsepower":       c.Horsepower,
			"description":      c.Description,
			"daily_price":      c.DailyPrice,
			"address":          c.Address,
			"is_available":     c.IsAvailable,
		}).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update car query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update car failed: %w", err)
	}
	return nil
}

func scanCar(row pgx.Row) (*Car, error) {
	var c Car
	if err := row.Scan(
		&c.ID, &c.OwnerID, &c.Brand, &c.Model, &c.Year, &c.LicensePlate,
		&c.VIN, &c.Color, &c.Category, &c.CarClass, &c.Seats, &c.Doors,
		&c.FuelType, &c.Transmission, &c.FuelConsumption, &c.EngineCapacity,
		&c.Horsepower, &c.Description, &c.DailyPrice, &c.Address,
		&c.IsAvailable, &c.CreatedAt, &c.UpdatedAt,
		&c.MainPhotoURL,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCarRows(rows pgx.Rows, total *int) (*Car, error) {
	var c Car
	if err := rows.Scan(
		&c.ID, &c.OwnerID, &c.Brand, &c.Model, &c.Year, &c.LicensePlate,
		&c.VIN, &c.Color, &c.Category, &c.CarClass, &c.Seats, &c.Doors,
		&c.FuelType, &c.Transmission, &c.FuelConsumption, &c.EngineCapacity,
		&c.Horsepower, &c.Description, &c.DailyPrice, &c.Address,
		&c.IsAvailable, &c.CreatedAt, &c.UpdatedAt,
		&c.MainPhotoURL, total,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
