package matching

import (
	"testing"
)

func TestBudgetScore(t *testing.T) {
	testCases := []struct {
		price, budget float64
		want          int
	}{
		{500000, 500000, 30},
		{499999, 500000, 30},
		{550000, 500000, 15},
		{550001, 500000, 0},
		{1, 0, 0},
		{0, 0, 30},
	}

	for _, tc := range testCases {
		if got := BudgetScore(tc.price, tc.budget); got.Score != tc.want {
			t.Errorf("BudgetScore(%v, %v) = %d, want %d", tc.price, tc.budget, got.Score, tc.want)
		}
	}
}

func TestMileageScore(t *testing.T) {
	testCases := []struct {
		name string
		eff  float64
		min  *float64
		want int
	}{
		{"no constraint", 5, nil, 25},
		{"meets", 18, floatPtr(18), 25},
		{"exceeds", 22.5, floatPtr(18), 25},
		{"within two", 16, floatPtr(18), 10},
		{"just below", 17.9, floatPtr(18), 10},
		{"far below", 15.9, floatPtr(18), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MileageScore(tc.eff, tc.min); got.Score != tc.want {
				t.Errorf("MileageScore() = %d (%s), want %d", got.Score, got.Reason, tc.want)
			}
		})
	}
}

func TestUsageScore(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		model   string
		pattern UsagePattern
		want    int
	}{
		{"family suv", "SUV", "Fortuner", UsageFamily, 20},
		{"family muv", "MUV", "Ertiga", UsageFamily, 20},
		{"family hatch", "HATCHBACK", "Swift", UsageFamily, 10},
		{"family coupe", "COUPE", "Mustang", UsageFamily, 0},
		{"city hatch", "HATCHBACK", "Swift", UsageCity, 20},
		{"city compact suv", "compact_suv", "Venue", UsageCity, 20},
		{"city sedan", "SEDAN", "City", UsageCity, 10},
		{"city alto any body", "VAN", "Alto 800", UsageCity, 20},
		{"city kwid", "SUV", "Kwid", UsageCity, 20},
		{"city suv", "SUV", "Creta", UsageCity, 0},
		{"long drive muv", "MUV", "Innova", UsageLongDrive, 20},
		{"long drive hatch", "HATCHBACK", "i20", UsageLongDrive, 0},
		{"business luxury", "LUXURY_SEDAN", "5 Series", UsageBusiness, 20},
		{"business hatch", "HATCHBACK", "Polo", UsageBusiness, 0},
		{"empty pattern is city", "HATCHBACK", "Polo", "", 20},
		{"lowercase pattern", "SUV", "XUV700", "family", 20},
		{"unknown pattern", "SUV", "XUV700", "LEISURE", 0},
		// Alto only rescues the CITY pattern
		{"family alto", "HATCHBACK", "Alto", UsageFamily, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UsageScore(tc.body, tc.model, tc.pattern); got.Score != tc.want {
				t.Errorf("UsageScore(%q, %q, %q) = %d, want %d", tc.body, tc.model, tc.pattern, got.Score, tc.want)
			}
		})
	}
}

func TestMaintenanceScore(t *testing.T) {
	testCases := []struct {
		brand string
		tier  MaintenanceTier
		want  int
	}{
		{"Toyota", TierLowMaintenance, 15},
		{"Maruti Suzuki", TierLowMaintenance, 15},
		{"honda", TierLowMaintenance, 15},
		{"Jeep", TierLowMaintenance, 5},
		{"Toyota", "LOW", 15},
		{"Jeep", TierBalanced, 10},
		{"Jeep", "MEDIUM", 10},
		{"Toyota", TierNoRestriction, 5},
		{"Toyota", "", 5},
	}

	for _, tc := range testCases {
		if got := MaintenanceScore(tc.brand, tc.tier); got.Score != tc.want {
			t.Errorf("MaintenanceScore(%q, %q) = %d, want %d", tc.brand, tc.tier, got.Score, tc.want)
		}
	}
}

func TestBonusScore(t *testing.T) {
	testCases := []struct {
		year int
		want int
	}{
		{2024, 10},
		{2020, 10},
		{2019, 5},
		{2017, 5},
		{2016, 0},
		{0, 0},
	}

	for _, tc := range testCases {
		if got := BonusScore(tc.year); got.Score != tc.want {
			t.Errorf("BonusScore(%d) = %d, want %d", tc.year, got.Score, tc.want)
		}
	}
}

func familyInventory() []Car {
	return []Car{
		{ID: 1, Brand: "Maruti", Model: "Swift", Year: 2019, FuelType: "Petrol", Mileage: 30000, BasePrice: 700000, BodyType: "HATCHBACK", FuelEfficiency: 21.0, IsActive: true},
		{ID: 2, Brand: "Toyota", Model: "Fortuner", Year: 2021, FuelType: "Diesel", Mileage: 40000, BasePrice: 1500000, BodyType: "SUV", FuelEfficiency: 14.5, IsActive: true},
		{ID: 3, Brand: "BMW", Model: "3 Series", Year: 2022, FuelType: "Petrol", Mileage: 10000, BasePrice: 3500000, BodyType: "SEDAN", FuelEfficiency: 10.0, IsActive: true},
	}
}

// TestScoreFamilyScenario verifies the expected ranking for a family buyer
func TestScoreFamilyScenario(t *testing.T) {
	req := Interpret(Requirement{Budget: 1600000, UsageType: "FAMILY", MileagePriority: "Medium", MaintenancePriority: "Low"})
	scored := ScoreAll(familyInventory(), req)

	want := map[int64]int{1: 85, 2: 100, 3: 35}
	for _, s := range scored {
		if s.AIScore != want[s.ID] {
			t.Errorf("car %d scored %d, want %d (details %+v)", s.ID, s.AIScore, want[s.ID], s.MatchDetails)
		}
		if s.AIScore != s.MatchDetails.Total() {
			t.Errorf("car %d AIScore %d != sum of details %d", s.ID, s.AIScore, s.MatchDetails.Total())
		}
	}

	ranked := Rank(scored)
	if ranked[0].ID != 2 || ranked[1].ID != 1 || ranked[2].ID != 3 {
		t.Errorf("unexpected ranking: %d, %d, %d", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
	// Rank must not reorder its input
	if scored[0].ID != 1 {
		t.Error("Rank modified its input slice")
	}
}

// TestScoreBounds checks every sub-score stays within its ceiling
func TestScoreBounds(t *testing.T) {
	cars := append(familyInventory(),
		Car{ID: 4, Brand: "Renault", Model: "Kwid", Year: 2015, BasePrice: 300000, BodyType: "HATCHBACK", FuelEfficiency: 22},
		Car{ID: 5, Brand: "Jeep", Model: "Compass", Year: 2018, BasePrice: 2100000, BodyType: "SUV", FuelEfficiency: 12},
		Car{ID: 6},
	)
	reqs := []Requirement{
		{},
		{Budget: 350000, UsageType: "city", MileagePriority: "high", MaintenancePriority: "low"},
		{Budget: 2000000, UsageType: "highway", MileagePriority: "low", MaintenancePriority: "high"},
		{Budget: 900000, UsageType: "business", MileagePriority: "medium", MaintenancePriority: "medium"},
		{Budget: 900000, UsageType: "leisure", MileagePriority: "extreme", MaintenancePriority: "???"},
	}

	for _, r := range reqs {
		interpreted := Interpret(r)
		for _, s := range ScoreAll(cars, interpreted) {
			d := s.MatchDetails
			if d.BudgetScore.Score < 0 || d.BudgetScore.Score > MaxBudgetScore ||
				d.MileageScore.Score < 0 || d.MileageScore.Score > MaxMileageScore ||
				d.UsageScore.Score < 0 || d.UsageScore.Score > MaxUsageScore ||
				d.MaintenanceScore.Score < 0 || d.MaintenanceScore.Score > MaxMaintenanceScore ||
				d.BonusScore.Score < 0 || d.BonusScore.Score > MaxBonusScore {
				t.Errorf("sub-score out of range for car %d, req %+v: %+v", s.ID, r, d)
			}
			if s.AIScore < 0 || s.AIScore > 100 {
				t.Errorf("AIScore %d out of range", s.AIScore)
			}
			if d.BudgetScore.Reason == "" || d.UsageScore.Reason == "" {
				t.Errorf("missing reason for car %d: %+v", s.ID, d)
			}
		}
	}
}

func TestRankStable(t *testing.T) {
	scored := []ScoredCar{
		{Car: Car{ID: 1}, AIScore: 50},
		{Car: Car{ID: 2}, AIScore: 80},
		{Car: Car{ID: 3}, AIScore: 50},
		{Car: Car{ID: 4}, AIScore: 80},
	}

	ranked := Rank(scored)
	wantIDs := []int64{2, 4, 1, 3}
	for i, id := range wantIDs {
		if ranked[i].ID != id {
			t.Fatalf("position %d = car %d, want %d", i, ranked[i].ID, id)
		}
	}

	if got := Rank(nil); len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", got)
	}
}
