// Package rules evaluates CEL eligibility rules against cars and interpreted
// requirements. A car is only scored when every active rule holds for it.
package rules

import (
	"time"

	"github.com/liamcoop/carmatch/matching"
)

// Rule is a named CEL boolean expression over the car and requirement facts.
type Rule struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Expression string    `json:"expression"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EvaluationResult contains the outcome of evaluating a rule
type EvaluationResult struct {
	RuleID   string `json:"rule_id"`
	RuleName string `json:"rule_name"`
	Matched  bool   `json:"matched"`
	Error    error  `json:"-"`
	Trace    any    `json:"-"` // CEL evaluation state (optional)
}

// Facts builds the activation for a rule evaluation. Numbers are widened to
// int64/float64 so expressions compare them without conversions.
func Facts(car matching.Car, req matching.InterpretedRequirement) map[string]any {
	requirement := map[string]any{
		"budget":            req.Interpretations.Budget.Amount,
		"budget_category":   string(req.BudgetCategory),
		"usage_pattern":     string(req.UsagePattern),
		"maintenance_score": string(req.MaintenanceScore),
		"preferred_body":    req.PreferredBody,
		"priority":          req.Priority,
	}
	if req.MinMileage != nil {
		requirement["min_mileage"] = *req.MinMileage
	}

	return map[string]any{
		"car": map[string]any{
			"id":              car.ID,
			"brand":           car.Brand,
			"model":           car.Model,
			"year":            int64(car.Year),
			"fuel_type":       car.FuelType,
			"mileage":         int64(car.Mileage),
			"base_price":      car.BasePrice,
			"condition":       car.Condition,
			"body_type":       car.BodyType,
			"fuel_efficiency": car.FuelEfficiency,
			"is_active":       car.IsActive,
		},
		"requirement": requirement,
	}
}
