package matching

import (
	"reflect"
	"testing"
)

func TestNormalizeUsage(t *testing.T) {
	testCases := []struct {
		input string
		want  UsagePattern
	}{
		{"", UsageCity},
		{"family", UsageFamily},
		{"Family trips", UsageFamily},
		{"Highway", UsageLongDrive},
		{"long weekend drives", UsageLongDrive},
		{"Daily commute", UsageCity},
		{"city", UsageCity},
		{"Off-road", UsageLongDrive},
		{"rough road", UsageLongDrive},
		{"business", UsageBusiness},
		// CITY is checked before FAMILY
		{"family city car", UsageCity},
		// HIGHWAY/LONG is checked before everything else
		{"business highway", UsageLongDrive},
		{"leisure", UsagePattern("LEISURE")},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := NormalizeUsage(tc.input); got != tc.want {
				t.Errorf("NormalizeUsage(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeMaintenancePriority(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"Low", "LOW"},
		{"low", "LOW"},
		{"Medium", "MEDIUM"},
		{"High", "ANY"},
		{"", "ANY"},
		{"whatever", "ANY"},
	}

	for _, tc := range testCases {
		if got := NormalizeMaintenancePriority(tc.input); got != tc.want {
			t.Errorf("NormalizeMaintenancePriority(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCategorizeBudget(t *testing.T) {
	testCases := []struct {
		budget   float64
		category BudgetCategory
		rng      PriceRange
	}{
		{0, BudgetEntry, PriceRange{0, 400000}},
		{399999, BudgetEntry, PriceRange{0, 400000}},
		{400000, BudgetMid, PriceRange{400000, 700000}},
		{700000, BudgetMid, PriceRange{400000, 700000}},
		{700001, BudgetPremium, PriceRange{700000, 700001}},
		{1600000, BudgetPremium, PriceRange{700000, 1600000}},
	}

	for _, tc := range testCases {
		got := CategorizeBudget(tc.budget)
		if got.Category != tc.category {
			t.Errorf("CategorizeBudget(%v).Category = %s, want %s", tc.budget, got.Category, tc.category)
		}
		if got.Range != tc.rng {
			t.Errorf("CategorizeBudget(%v).Range = %+v, want %+v", tc.budget, got.Range, tc.rng)
		}
		if got.Amount != tc.budget {
			t.Errorf("CategorizeBudget(%v).Amount = %v", tc.budget, got.Amount)
		}
		if len(got.TypicalCars) == 0 || got.Description == "" {
			t.Errorf("CategorizeBudget(%v) should carry display details", tc.budget)
		}
	}
}

func TestInterpretFamilyMediumLow(t *testing.T) {
	got := Interpret(Requirement{
		Budget:              1600000,
		UsageType:           "FAMILY",
		MileagePriority:     "Medium",
		MaintenancePriority: "Low",
	})

	if got.UsagePattern != UsageFamily {
		t.Errorf("UsagePattern = %s, want FAMILY", got.UsagePattern)
	}
	if !reflect.DeepEqual(got.PreferredBody, []string{"SUV", "MUV", "SEDAN"}) {
		t.Errorf("PreferredBody = %v", got.PreferredBody)
	}
	if got.MinMileage == nil || *got.MinMileage != 14 {
		t.Errorf("MinMileage = %v, want 14", got.MinMileage)
	}
	if got.MaintenanceScore != TierLowMaintenance {
		t.Errorf("MaintenanceScore = %s, want LOW_MAINTENANCE", got.MaintenanceScore)
	}
	if got.BudgetCategory != BudgetPremium {
		t.Errorf("BudgetCategory = %s, want PREMIUM", got.BudgetCategory)
	}

	wantPriority := []string{"safety", "space", "comfort", "fuel_efficiency", "low_maintenance", "reliability"}
	if !reflect.DeepEqual(got.Priority, wantPriority) {
		t.Errorf("Priority = %v, want %v", got.Priority, wantPriority)
	}

	m := got.Interpretations.Maintenance
	if m.Priority != "LOW" {
		t.Errorf("maintenance priority = %s, want LOW", m.Priority)
	}
	if !reflect.DeepEqual(m.PreferredBrands, []string{"Maruti", "Hyundai", "Honda", "Toyota"}) {
		t.Errorf("PreferredBrands = %v", m.PreferredBrands)
	}
	if !reflect.DeepEqual(m.AvoidBrands, []string{"Jeep", "Fiat"}) {
		t.Errorf("AvoidBrands = %v", m.AvoidBrands)
	}
	if got.Interpretations.Budget.Amount != 1600000 {
		t.Errorf("budget amount = %v", got.Interpretations.Budget.Amount)
	}
	if got.Interpretations.Mileage.Importance != ImportancePreferred {
		t.Errorf("mileage importance = %s", got.Interpretations.Mileage.Importance)
	}
}

func TestInterpretPriorityOrdering(t *testing.T) {
	testCases := []struct {
		name string
		req  Requirement
		want []string
	}{
		{
			name: "critical mileage leads even when already present",
			req:  Requirement{UsageType: "city", MileagePriority: "high"},
			want: []string{"fuel_efficiency", "maneuverability", "compact_size"},
		},
		{
			name: "critical mileage is prepended",
			req:  Requirement{UsageType: "highway", MileagePriority: "HIGH"},
			want: []string{"fuel_efficiency", "comfort", "stability", "highway_performance"},
		},
		{
			name: "preferred mileage not duplicated",
			req:  Requirement{UsageType: "city", MileagePriority: "medium"},
			want: []string{"fuel_efficiency", "maneuverability", "compact_size"},
		},
		{
			name: "preferred mileage appended",
			req:  Requirement{UsageType: "business", MileagePriority: "medium"},
			want: []string{"brand_image", "aesthetics", "comfort", "fuel_efficiency"},
		},
		{
			name: "critical mileage and maintenance",
			req:  Requirement{UsageType: "family", MileagePriority: "high", MaintenancePriority: "low"},
			want: []string{"fuel_efficiency", "safety", "space", "comfort", "low_maintenance", "reliability"},
		},
		{
			name: "balanced maintenance adds nothing",
			req:  Requirement{UsageType: "family", MaintenancePriority: "medium"},
			want: []string{"safety", "space", "comfort"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Interpret(tc.req)
			if !reflect.DeepEqual(got.Priority, tc.want) {
				t.Errorf("Priority = %v, want %v", got.Priority, tc.want)
			}
		})
	}
}

// TestInterpretDefaults verifies missing and unknown input degrades to defaults
func TestInterpretDefaults(t *testing.T) {
	got := Interpret(Requirement{})

	if got.UsagePattern != UsageCity {
		t.Errorf("UsagePattern = %s, want CITY", got.UsagePattern)
	}
	if got.MinMileage != nil {
		t.Errorf("MinMileage = %v, want nil", *got.MinMileage)
	}
	if got.Interpretations.Mileage.Priority != "LOW" {
		t.Errorf("mileage priority = %s, want LOW", got.Interpretations.Mileage.Priority)
	}
	if got.MaintenanceScore != TierNoRestriction {
		t.Errorf("MaintenanceScore = %s, want NO_RESTRICTION", got.MaintenanceScore)
	}
	if got.BudgetCategory != BudgetEntry {
		t.Errorf("BudgetCategory = %s, want ENTRY", got.BudgetCategory)
	}

	unknown := Interpret(Requirement{Budget: 500000, UsageType: "leisure", MileagePriority: "extreme", MaintenancePriority: "none"})
	if unknown.UsagePattern != "LEISURE" {
		t.Errorf("UsagePattern = %s, want raw LEISURE", unknown.UsagePattern)
	}
	// unknown usage borrows the CITY table entry
	if !reflect.DeepEqual(unknown.PreferredBody, []string{"HATCHBACK", "COMPACT_SUV", "SEDAN"}) {
		t.Errorf("PreferredBody = %v", unknown.PreferredBody)
	}
	if unknown.MinMileage != nil {
		t.Error("unknown mileage priority should have no floor")
	}
	if unknown.Interpretations.Mileage.Priority != "EXTREME" {
		t.Errorf("mileage priority = %s, want EXTREME", unknown.Interpretations.Mileage.Priority)
	}
	if unknown.MaintenanceScore != TierNoRestriction {
		t.Errorf("MaintenanceScore = %s", unknown.MaintenanceScore)
	}
}

// TestInterpretAlwaysPopulated checks a grid of inputs for complete, duplicate-free output
func TestInterpretAlwaysPopulated(t *testing.T) {
	usages := []string{"", "family", "CITY", "highway", "offroad", "business", "???"}
	levels := []string{"", "low", "Medium", "HIGH", "bogus"}
	budgets := []float64{0, 250000, 400000, 650000, 700000, 2500000}

	for _, u := range usages {
		for _, m := range levels {
			for _, mt := range levels {
				for _, b := range budgets {
					got := Interpret(Requirement{Budget: b, UsageType: u, MileagePriority: m, MaintenancePriority: mt})
					if got.UsagePattern == "" || got.MaintenanceScore == "" || got.BudgetCategory == "" {
						t.Fatalf("unpopulated output for %q/%q/%q/%v: %+v", u, m, mt, b, got)
					}
					if len(got.PreferredBody) == 0 || len(got.Priority) == 0 {
						t.Fatalf("empty lists for %q/%q/%q/%v", u, m, mt, b)
					}
					seen := map[string]bool{}
					for _, p := range got.Priority {
						if seen[p] {
							t.Fatalf("duplicate priority %q in %v", p, got.Priority)
						}
						seen[p] = true
					}
				}
			}
		}
	}
}

// TestInterpretDoesNotShareTables makes sure callers cannot corrupt lookup tables
func TestInterpretDoesNotShareTables(t *testing.T) {
	first := Interpret(Requirement{UsageType: "family", MaintenancePriority: "low"})
	first.PreferredBody[0] = "TRUCK"
	first.Interpretations.Maintenance.PreferredBrands[0] = "Nobody"
	*first.MinMileage = 99

	second := Interpret(Requirement{UsageType: "family", MaintenancePriority: "low"})
	if second.PreferredBody[0] != "SUV" {
		t.Errorf("usage table was mutated: %v", second.PreferredBody)
	}
	if second.Interpretations.Maintenance.PreferredBrands[0] != "Maruti" {
		t.Errorf("maintenance table was mutated: %v", second.Interpretations.Maintenance.PreferredBrands)
	}
}
