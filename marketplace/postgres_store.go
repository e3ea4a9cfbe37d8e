package marketplace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresRequirementStore implements RequirementStore on customer_requirements
type PostgresRequirementStore struct {
	db *sql.DB
}

func NewPostgresRequirementStore(db *sql.DB) *PostgresRequirementStore {
	return &PostgresRequirementStore{db: db}
}

func (s *PostgresRequirementStore) Create(ctx context.Context, r *CustomerRequirement) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO customer_requirements (customer_id, budget, usage_type, mileage_priority, maintenance_priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.CustomerID, r.Budget, r.UsageType, r.MileagePriority, r.MaintenancePriority).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert requirement: %w", err)
	}
	return nil
}

func (s *PostgresRequirementStore) Get(ctx context.Context, id int64) (*CustomerRequirement, error) {
	var r CustomerRequirement
	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_id, budget, usage_type, mileage_priority, maintenance_priority, created_at
		FROM customer_requirements
		WHERE id = $1
	`, id).Scan(&r.ID, &r.CustomerID, &r.Budget, &r.UsageType, &r.MileagePriority, &r.MaintenancePriority, &r.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("requirement %d: %w", id, ErrRequirementNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get requirement: %w", err)
	}
	return &r, nil
}

func (s *PostgresRequirementStore) ListByCustomer(ctx context.Context, customerID int64) ([]*CustomerRequirement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, budget, usage_type, mileage_priority, maintenance_priority, created_at
		FROM customer_requirements
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	out := []*CustomerRequirement{}
	for rows.Next() {
		var r CustomerRequirement
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.Budget, &r.UsageType, &r.MileagePriority,
			&r.MaintenancePriority, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requirements: %w", err)
	}
	return out, nil
}

// PostgresQuotationStore implements QuotationStore on quotations. The pricing
// breakdown is stored as JSONB.
type PostgresQuotationStore struct {
	db *sql.DB
}

func NewPostgresQuotationStore(db *sql.DB) *PostgresQuotationStore {
	return &PostgresQuotationStore{db: db}
}

func (s *PostgresQuotationStore) Create(ctx context.Context, q *Quotation) error {
	breakdown, err := json.Marshal(q.PricingBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode pricing breakdown: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO quotations (id, customer_id, requirement_id, car_id, ai_score, base_price,
			final_price, pricing_breakdown, status, explanation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`, q.ID, q.CustomerID, q.RequirementID, q.CarID, q.AIScore, q.BasePrice,
		q.FinalPrice, breakdown, q.Status, q.Explanation).Scan(&q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quotation: %w", err)
	}
	return nil
}

func (s *PostgresQuotationStore) Get(ctx context.Context, id string) (*Quotation, error) {
	var (
		q         Quotation
		breakdown []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_id, requirement_id, car_id, ai_score, base_price, final_price,
			pricing_breakdown, status, explanation, created_at
		FROM quotations
		WHERE id::text = $1
	`, id).Scan(&q.ID, &q.CustomerID, &q.RequirementID, &q.CarID, &q.AIScore, &q.BasePrice,
		&q.FinalPrice, &breakdown, &q.Status, &q.Explanation, &q.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quotation %s: %w", id, ErrQuotationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if err := json.Unmarshal(breakdown, &q.PricingBreakdown); err != nil {
		return nil, fmt.Errorf("failed to decode pricing breakdown: %w", err)
	}
	return &q, nil
}
