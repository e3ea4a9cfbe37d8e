package matching

import (
	"sort"
	"strings"
)

// Sub-score ceilings. They add up to 100.
const (
	MaxBudgetScore      = 30
	MaxMileageScore     = 25
	MaxUsageScore       = 20
	MaxMaintenanceScore = 15
	MaxBonusScore       = 10
)

// budgetTolerance is how far over budget a price may go and still earn credit.
const budgetTolerance = 1.10

// BudgetScore rewards cars priced within, or just above, the budget.
func BudgetScore(carPrice, budget float64) SubScore {
	switch {
	case carPrice <= budget:
		return SubScore{Score: MaxBudgetScore, Reason: "Within budget"}
	case carPrice <= budget*budgetTolerance:
		return SubScore{Score: 15, Reason: "Slightly above budget (within 10%)"}
	default:
		return SubScore{Score: 0, Reason: "Over budget"}
	}
}

// MileageScore compares fuel efficiency with the requirement's floor. A nil
// floor means there is no constraint.
func MileageScore(fuelEfficiency float64, minMileage *float64) SubScore {
	if minMileage == nil {
		return SubScore{Score: MaxMileageScore, Reason: "No mileage constraint"}
	}
	switch {
	case fuelEfficiency >= *minMileage:
		return SubScore{Score: MaxMileageScore, Reason: "Meets mileage requirement"}
	case fuelEfficiency >= *minMileage-2:
		return SubScore{Score: 10, Reason: "Slightly below mileage target (within 2 kmpl)"}
	default:
		return SubScore{Score: 0, Reason: "Low mileage"}
	}
}

// UsageScore rates how well a body type (and, for city use, the model)
// suits the usage pattern.
func UsageScore(bodyType, model string, pattern UsagePattern) SubScore {
	body := strings.ToUpper(bodyType)
	p := UsagePattern(strings.ToUpper(string(pattern)))
	if p == "" {
		p = UsageCity
	}

	for i, tier := range usageBodyScores[p] {
		matched := containsString(tier.bodies, body)
		if i == 0 && p == UsageCity && containsAny(model, compactCityModels) {
			matched = true
		}
		if matched {
			return SubScore{Score: tier.score, Reason: tier.reason}
		}
	}
	return SubScore{Score: 0, Reason: "Usage mismatch"}
}

// MaintenanceScore favors reliable brands when low maintenance was asked for.
func MaintenanceScore(brand string, tier MaintenanceTier) SubScore {
	switch tier {
	case TierLowMaintenance, "LOW":
		upper := strings.ToUpper(brand)
		for _, rb := range reliableBrands {
			if strings.Contains(upper, strings.ToUpper(rb)) {
				return SubScore{Score: MaxMaintenanceScore, Reason: "Reliable brand (Low Maintenance)"}
			}
		}
		return SubScore{Score: 5, Reason: "Standard maintenance"}
	case TierBalanced, "MEDIUM":
		return SubScore{Score: 10, Reason: "Balanced maintenance"}
	default:
		return SubScore{Score: 5, Reason: "No maintenance preference"}
	}
}

// BonusScore rewards recent model years.
func BonusScore(year int) SubScore {
	switch {
	case year >= 2020:
		return SubScore{Score: MaxBonusScore, Reason: "New model (2020+)"}
	case year >= 2017:
		return SubScore{Score: 5, Reason: "Recent model (2017+)"}
	default:
		return SubScore{Score: 0, Reason: "Older model"}
	}
}

// Score computes the AI score of one car against an interpreted requirement.
// The returned value holds a copy of the car; the input is not modified.
func Score(car Car, req InterpretedRequirement) ScoredCar {
	details := MatchDetails{
		BudgetScore:      BudgetScore(car.BasePrice, req.Interpretations.Budget.Amount),
		MileageScore:     MileageScore(car.FuelEfficiency, req.MinMileage),
		UsageScore:       UsageScore(car.BodyType, car.Model, req.UsagePattern),
		MaintenanceScore: MaintenanceScore(car.Brand, req.MaintenanceScore),
		BonusScore:       BonusScore(car.Year),
	}
	return ScoredCar{
		Car:          car,
		AIScore:      details.Total(),
		MatchDetails: details,
	}
}

// ScoreAll scores every car, preserving input order.
func ScoreAll(cars []Car, req InterpretedRequirement) []ScoredCar {
	out := make([]ScoredCar, 0, len(cars))
	for _, c := range cars {
		out = append(out, Score(c, req))
	}
	return out
}

// Rank returns the cars sorted by AI score, highest first. Equal scores keep
// their input order.
func Rank(scored []ScoredCar) []ScoredCar {
	out := make([]ScoredCar, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AIScore > out[j].AIScore })
	return out
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// containsAny reports whether s contains any of subs (case-sensitive).
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
