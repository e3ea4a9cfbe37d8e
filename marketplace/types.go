// Package marketplace wires stored requirements and inventory through the
// matching pipeline and records the resulting quotations.
package marketplace

import (
	"time"

	"github.com/liamcoop/carmatch/matching"
	"github.com/liamcoop/carmatch/pricing"
)

const (
	AIVersion = "1.0.0"
	AIType    = "rule_based"

	QuotationPending = "pending"
)

// CustomerRequirement is a persisted raw requirement.
type CustomerRequirement struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customer_id"`
	matching.Requirement
	CreatedAt time.Time `json:"created_at"`
}

// Interpretation is an interpreted requirement tagged with where it came from.
type Interpretation struct {
	matching.InterpretedRequirement
	RequirementID     int64     `json:"requirement_id"`
	CustomerID        int64     `json:"customer_id"`
	OriginalCreatedAt time.Time `json:"original_created_at"`
	AIVersion         string    `json:"ai_version"`
	AIType            string    `json:"ai_type"`
	Timestamp         time.Time `json:"timestamp"`
}

// ScoreResult is the ranked inventory for one requirement.
type ScoreResult struct {
	Requirement Interpretation       `json:"requirement"`
	RankedCars  []matching.ScoredCar `json:"ranked_cars"`
	Total       int                  `json:"total"`
}

// CarSummary is the short form of a car shown with recommendations and quotations.
type CarSummary struct {
	ID    int64   `json:"id"`
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Year  int     `json:"year"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

func summarize(c matching.Car) CarSummary {
	return CarSummary{ID: c.ID, Brand: c.Brand, Model: c.Model, Year: c.Year, Price: c.BasePrice, Image: c.ImageURL}
}

// Recommendation is the single best car for a requirement.
type Recommendation struct {
	RequirementID int64                 `json:"requirement_id"`
	Car           CarSummary            `json:"car"`
	Score         int                   `json:"score"`
	Explanation   string                `json:"explanation"`
	MatchDetails  matching.MatchDetails `json:"match_details"`
}

// Quotation is a priced offer for the recommended car.
type Quotation struct {
	ID               string            `json:"id"`
	CustomerID       int64             `json:"customer_id"`
	RequirementID    int64             `json:"requirement_id"`
	CarID            int64             `json:"car_id"`
	Car              *CarSummary       `json:"car,omitempty"`
	AIScore          int               `json:"ai_score"`
	BasePrice        float64           `json:"base_price"`
	FinalPrice       float64           `json:"final_price"`
	PricingBreakdown pricing.Breakdown `json:"pricing_breakdown"`
	Status           string            `json:"status"`
	Explanation      string            `json:"explanation"`
	CreatedAt        time.Time         `json:"created_at"`
}
