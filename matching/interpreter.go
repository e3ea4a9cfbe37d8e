// Package matching turns customer requirements into ranked car recommendations.
//
// Everything in this package is deterministic and side-effect free: the same
// requirement and inventory always produce the same scores, winner and
// explanation.
package matching

import (
	"slices"
	"strings"
)

// NormalizeUsage maps free-form usage text onto a UsagePattern. Empty input
// means CITY; text matching no keyword is returned uppercased as-is.
func NormalizeUsage(input string) UsagePattern {
	if input == "" {
		return UsageCity
	}
	upper := strings.ToUpper(input)
	for _, rule := range usageKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(upper, kw) {
				return rule.pattern
			}
		}
	}
	return UsagePattern(upper)
}

// NormalizeMileagePriority uppercases the mileage priority, defaulting to LOW.
func NormalizeMileagePriority(input string) string {
	if input == "" {
		return "LOW"
	}
	return strings.ToUpper(input)
}

// NormalizeMaintenancePriority maps Low/Medium/High onto LOW/MEDIUM/ANY.
// Missing or unrecognized input means ANY.
func NormalizeMaintenancePriority(input string) string {
	if p, ok := maintenanceInputs[strings.ToUpper(input)]; ok {
		return p
	}
	return "ANY"
}

// CategorizeBudget buckets a budget and describes the bucket.
func CategorizeBudget(budget float64) BudgetInterpretation {
	var (
		category BudgetCategory
		rng      PriceRange
	)
	switch {
	case budget < entryBudgetCeiling:
		category, rng = BudgetEntry, PriceRange{Min: 0, Max: entryBudgetCeiling}
	case budget <= midBudgetCeiling:
		category, rng = BudgetMid, PriceRange{Min: entryBudgetCeiling, Max: midBudgetCeiling}
	default:
		category, rng = BudgetPremium, PriceRange{Min: midBudgetCeiling, Max: budget}
	}
	desc := budgetDescriptions[category]
	return BudgetInterpretation{
		Amount:      budget,
		Category:    category,
		Range:       rng,
		Description: desc.description,
		TypicalCars: slices.Clone(desc.typicalCars),
	}
}

func lookupUsage(p UsagePattern) usageProfile {
	if u, ok := usageTable[p]; ok {
		return u
	}
	return usageTable[UsageCity]
}

func lookupMileage(priority string) mileageProfile {
	if m, ok := mileageTable[priority]; ok {
		return m
	}
	return mileageTable["LOW"]
}

func buildPriorities(usage usageProfile, mileage mileageProfile, maintenance maintenanceProfile) []string {
	priorities := slices.Clone(usage.priority)

	switch mileage.importance {
	case ImportanceCritical:
		priorities = append([]string{"fuel_efficiency"}, priorities...)
	case ImportancePreferred:
		if !slices.Contains(priorities, "fuel_efficiency") {
			priorities = append(priorities, "fuel_efficiency")
		}
	}

	if maintenance.importance == ImportanceCritical {
		priorities = append(priorities, "low_maintenance", "reliability")
	}

	return dedup(priorities)
}

// dedup drops repeated values, keeping each at its first position.
func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Interpret converts a raw requirement into matching criteria. It never
// fails: every axis falls back to a documented default.
func Interpret(raw Requirement) InterpretedRequirement {
	usagePattern := NormalizeUsage(raw.UsageType)
	mileagePriority := NormalizeMileagePriority(raw.MileagePriority)
	maintenancePriority := NormalizeMaintenancePriority(raw.MaintenancePriority)

	usage := lookupUsage(usagePattern)
	mileage := lookupMileage(mileagePriority)
	maintenance := maintenanceTable[maintenancePriority]
	budget := CategorizeBudget(raw.Budget)

	var minMileage *float64
	if mileage.minMileage != nil {
		minMileage = floatPtr(*mileage.minMileage)
	}

	return InterpretedRequirement{
		PreferredBody:    slices.Clone(usage.preferredBody),
		MinMileage:       minMileage,
		MaintenanceScore: maintenance.tier,
		UsagePattern:     usagePattern,
		BudgetCategory:   budget.Category,
		Priority:         buildPriorities(usage, mileage, maintenance),
		Interpretations: Interpretations{
			Usage: UsageInterpretation{
				Type:            usagePattern,
				Characteristics: slices.Clone(usage.characteristics),
				Description:     usage.description,
			},
			Mileage: MileageInterpretation{
				Priority:    mileagePriority,
				MinValue:    minMileage,
				Description: mileage.description,
				Importance:  mileage.importance,
			},
			Maintenance: MaintenanceInterpretation{
				Priority:        maintenancePriority,
				Score:           maintenance.tier,
				PreferredBrands: slices.Clone(maintenance.preferredBrands),
				AvoidBrands:     slices.Clone(maintenance.avoidBrands),
				Description:     maintenance.description,
				Importance:      maintenance.importance,
			},
			Budget: budget,
		},
	}
}
