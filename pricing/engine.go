// Package pricing derives a quoted price for a car from its age, odometer
// reading and match score.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/liamcoop/carmatch/matching"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Breakdown keeps every intermediate factor of a price for audit and display.
type Breakdown struct {
	BasePrice              float64 `json:"base_price"`
	Age                    int     `json:"age"`
	DepreciationPercent    float64 `json:"depreciation_percent"`
	PriceAfterDepreciation float64 `json:"price_after_depreciation"`
	MileageFactor          float64 `json:"mileage_factor"`
	DemandFactor           float64 `json:"demand_factor"`
	AIScore                int     `json:"ai_score"`
}

// Result is the priced outcome for one car.
type Result struct {
	FinalPrice float64   `json:"final_price"`
	Breakdown  Breakdown `json:"breakdown"`
}

// Engine prices cars. The zero value is not usable; call NewEngine.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a price engine reading the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// WithClock replaces the time source used to compute car age.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// DepreciationPercent returns the fraction of value lost at the given age in years.
func DepreciationPercent(age int) decimal.Decimal {
	switch {
	case age <= 1:
		return decimal.NewFromFloat(0.05)
	case age <= 3:
		return decimal.NewFromFloat(0.10)
	case age <= 5:
		return decimal.NewFromFloat(0.15)
	default:
		return decimal.NewFromFloat(0.20)
	}
}

// MileageFactor discounts by odometer reading in km.
func MileageFactor(mileage int) decimal.Decimal {
	switch {
	case mileage < 30000:
		return decimal.NewFromFloat(1.00)
	case mileage < 60000:
		return decimal.NewFromFloat(0.95)
	case mileage < 100000:
		return decimal.NewFromFloat(0.90)
	default:
		return decimal.NewFromFloat(0.85)
	}
}

// DemandFactor adjusts for how well the car matched the customer.
func DemandFactor(aiScore int) decimal.Decimal {
	switch {
	case aiScore >= 90:
		return decimal.NewFromFloat(1.05)
	case aiScore >= 80:
		return decimal.NewFromFloat(1.03)
	case aiScore >= 70:
		return decimal.NewFromFloat(1.01)
	default:
		return decimal.NewFromFloat(0.98)
	}
}

// RoundToHundred rounds half-up to the nearest multiple of 100.
func RoundToHundred(v decimal.Decimal) decimal.Decimal {
	return v.Div(hundred).Add(half).Floor().Mul(hundred)
}

// Price computes the final price of car given its AI score.
func (e *Engine) Price(car matching.Car, aiScore int) Result {
	age := e.now().Year() - car.Year

	base := decimal.NewFromFloat(car.BasePrice)
	depreciation := DepreciationPercent(age)
	afterDepreciation := base.Mul(one.Sub(depreciation))
	mileageFactor := MileageFactor(car.Mileage)
	demandFactor := DemandFactor(aiScore)

	final := RoundToHundred(afterDepreciation.Mul(mileageFactor).Mul(demandFactor))

	return Result{
		FinalPrice: final.InexactFloat64(),
		Breakdown: Breakdown{
			BasePrice:              car.BasePrice,
			Age:                    age,
			DepreciationPercent:    depreciation.InexactFloat64(),
			PriceAfterDepreciation: afterDepreciation.InexactFloat64(),
			MileageFactor:          mileageFactor.InexactFloat64(),
			DemandFactor:           demandFactor.InexactFloat64(),
			AIScore:                aiScore,
		},
	}
}
