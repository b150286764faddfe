package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

var carColumns = []string{
	"id", "brand", "model", "price", "image", "fuel_type", "seating_capacity", "year",
	"description", "engine", "mileage", "color", "transmission",
}

func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := withTimeout(ctx, pingTimeout, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// PostgresRepository is a snapshot of the cars table taken at load time.
// The database is only consulted again by Ping.
type PostgresRepository struct {
	*MemRepository
	db *sql.DB
}

func LoadPostgres(ctx context.Context, db *sql.DB) (*PostgresRepository, error) {
	query, args, err := sq.Select(carColumns...).
		From("cars").
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cars query: %w", err)
	}

	var items []Item
	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]Item, 0, 16)
		for rows.Next() {
			var it Item
			if err := rows.Scan(
				&it.ID, &it.Brand, &it.Model, &it.Price, &it.Image, &it.FuelType,
				&it.SeatingCapacity, &it.Year, &it.Description,
				&it.Specifications.Engine, &it.Specifications.Mileage,
				&it.Specifications.Color, &it.Specifications.Transmission,
			); err != nil {
				return err
			}
			items = append(items, it)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("load cars: %w", err)
	}

	mem, err := NewMemRepository(items)
	if err != nil {
		return nil, err
	}
	return &PostgresRepository{MemRepository: mem, db: db}, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, r.db.PingContext)
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
