package matching

import (
	"fmt"
	"sort"
	"strings"
)

// FallbackExplanation is returned when there is nothing to explain.
const FallbackExplanation = "We recommend this car based on your preferences."

// better orders two scored cars: higher score, then lower price, then newer year.
func better(a, b ScoredCar) bool {
	if a.AIScore != b.AIScore {
		return a.AIScore > b.AIScore
	}
	if a.BasePrice != b.BasePrice {
		return a.BasePrice < b.BasePrice
	}
	return a.Year > b.Year
}

// SelectBest picks the single best car. It returns nil only when scored is
// empty. Cars tied on score, price and year resolve to input order.
func SelectBest(scored []ScoredCar) *ScoredCar {
	if len(scored) == 0 {
		return nil
	}
	ordered := make([]ScoredCar, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool { return better(ordered[i], ordered[j]) })
	best := ordered[0]
	return &best
}

// Explain builds the recommendation sentence for the winning car.
func Explain(car *ScoredCar, req *InterpretedRequirement) string {
	if car == nil || req == nil {
		return FallbackExplanation
	}

	var parts []string

	budget := req.Interpretations.Budget.Amount
	switch {
	case car.BasePrice <= budget:
		parts = append(parts, "fits within your budget")
	case car.BasePrice <= budget*budgetTolerance:
		parts = append(parts, "is slightly above budget but offers strong value")
	}

	if req.MinMileage != nil && car.FuelEfficiency >= *req.MinMileage {
		parts = append(parts, "offers excellent fuel efficiency")
	}

	if clause, ok := usageClauses[req.Interpretations.Usage.Type]; ok {
		parts = append(parts, clause)
	} else if car.BodyType == "SUV" {
		parts = append(parts, "provides great space and presence")
	}

	if req.Interpretations.Maintenance.Priority == "LOW" && containsAny(car.Brand, reliableBrands) {
		parts = append(parts, "is known for reliability and low maintenance cost")
	}

	return fmt.Sprintf("We recommend the %d %s %s because %s.", car.Year, car.Brand, car.Model, joinClauses(parts))
}

// joinClauses renders "it a", "it a, and b" or "it a, b, and c".
func joinClauses(parts []string) string {
	switch len(parts) {
	case 0:
		return "it matches your requirements well"
	case 1:
		return "it " + parts[0]
	default:
		last := len(parts) - 1
		return "it " + strings.Join(parts[:last], ", ") + ", and " + parts[last]
	}
}
