package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/liamcoop/carmatch/matching"
)

const carColumns = `id, brand, model, year, fuel_type, mileage, base_price, condition,
	body_type, fuel_efficiency, is_active, image_url`

// PostgresStore reads cars from the cars table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed Store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (matching.Car, error) {
	var c matching.Car
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.FuelType, &c.Mileage,
		&c.BasePrice, &c.Condition, &c.BodyType, &c.FuelEfficiency, &c.IsActive, &c.ImageURL)
	return c, err
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]matching.Car, error) {
	return s.Search(ctx, Filter{})
}

// Search builds the WHERE clause from the non-zero filter fields
func (s *PostgresStore) Search(ctx context.Context, f Filter) ([]matching.Car, error) {
	conds := []string{"is_active = true"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.MinPrice > 0 {
		add("base_price >= $%d", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		add("base_price <= $%d", f.MaxPrice)
	}
	if f.FuelType != "" {
		add("fuel_type = $%d", f.FuelType)
	}
	if f.MinMileage > 0 {
		add("mileage >= $%d", f.MinMileage)
	}

	query := `SELECT ` + carColumns + ` FROM cars WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	defer rows.Close()

	cars := []matching.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cars: %w", err)
	}
	return cars, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (matching.Car, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
	c, err := scanCar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return matching.Car{}, fmt.Errorf("car %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return matching.Car{}, fmt.Errorf("failed to get car: %w", err)
	}
	return c, nil
}
