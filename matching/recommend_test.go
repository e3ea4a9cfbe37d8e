package matching

import (
	"math/rand"
	"testing"
)

func TestSelectBest(t *testing.T) {
	testCases := []struct {
		name   string
		scored []ScoredCar
		wantID int64
	}{
		{
			name: "highest score wins",
			scored: []ScoredCar{
				{Car: Car{ID: 1, BasePrice: 500000, Year: 2020}, AIScore: 70},
				{Car: Car{ID: 2, BasePrice: 900000, Year: 2018}, AIScore: 90},
			},
			wantID: 2,
		},
		{
			name: "cheaper wins on equal score",
			scored: []ScoredCar{
				{Car: Car{ID: 1, BasePrice: 1000000, Year: 2023}, AIScore: 85},
				{Car: Car{ID: 2, BasePrice: 900000, Year: 2019}, AIScore: 85},
			},
			wantID: 2,
		},
		{
			name: "newer wins on equal score and price",
			scored: []ScoredCar{
				{Car: Car{ID: 1, BasePrice: 900000, Year: 2019}, AIScore: 85},
				{Car: Car{ID: 2, BasePrice: 900000, Year: 2022}, AIScore: 85},
			},
			wantID: 2,
		},
		{
			name: "full tie keeps first",
			scored: []ScoredCar{
				{Car: Car{ID: 7, BasePrice: 900000, Year: 2022}, AIScore: 85},
				{Car: Car{ID: 3, BasePrice: 900000, Year: 2022}, AIScore: 85},
			},
			wantID: 7,
		},
		{
			name: "single car",
			scored: []ScoredCar{
				{Car: Car{ID: 9}, AIScore: 0},
			},
			wantID: 9,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			best := SelectBest(tc.scored)
			if best == nil {
				t.Fatal("SelectBest returned nil")
			}
			if best.ID != tc.wantID {
				t.Errorf("SelectBest picked car %d, want %d", best.ID, tc.wantID)
			}
		})
	}
}

func TestSelectBestEmpty(t *testing.T) {
	if best := SelectBest(nil); best != nil {
		t.Errorf("SelectBest(nil) = %+v, want nil", best)
	}
	if best := SelectBest([]ScoredCar{}); best != nil {
		t.Errorf("SelectBest(empty) = %+v, want nil", best)
	}
}

// TestSelectBestOrderIndependent verifies the winner does not depend on input order
// when the tie-break keys are distinct
func TestSelectBestOrderIndependent(t *testing.T) {
	scored := []ScoredCar{
		{Car: Car{ID: 1, BasePrice: 1000000, Year: 2021}, AIScore: 85},
		{Car: Car{ID: 2, BasePrice: 900000, Year: 2019}, AIScore: 85},
		{Car: Car{ID: 3, BasePrice: 900000, Year: 2020}, AIScore: 85},
		{Car: Car{ID: 4, BasePrice: 400000, Year: 2024}, AIScore: 84},
		{Car: Car{ID: 5, BasePrice: 2000000, Year: 2024}, AIScore: 60},
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := make([]ScoredCar, len(scored))
		copy(shuffled, scored)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		best := SelectBest(shuffled)
		if best.ID != 3 {
			t.Fatalf("iteration %d: picked car %d, want 3", i, best.ID)
		}
	}
}

func TestSelectBestDoesNotMutate(t *testing.T) {
	scored := []ScoredCar{
		{Car: Car{ID: 1, BasePrice: 1000000}, AIScore: 10},
		{Car: Car{ID: 2, BasePrice: 900000}, AIScore: 90},
	}
	best := SelectBest(scored)
	best.AIScore = 0

	if scored[0].ID != 1 || scored[1].AIScore != 90 {
		t.Errorf("input was modified: %+v", scored)
	}
}

func TestExplain(t *testing.T) {
	testCases := []struct {
		name string
		car  ScoredCar
		req  Requirement
		want string
	}{
		{
			name: "all four clauses",
			car:  ScoredCar{Car: Car{Brand: "Maruti", Model: "Ertiga", Year: 2021, BasePrice: 900000, BodyType: "MUV", FuelEfficiency: 19}},
			req:  Requirement{Budget: 1000000, UsageType: "FAMILY", MileagePriority: "High", MaintenancePriority: "Low"},
			want: "We recommend the 2021 Maruti Ertiga because it fits within your budget, offers excellent fuel efficiency, provides spacious comfort suitable for family use, and is known for reliability and low maintenance cost.",
		},
		{
			name: "two clauses",
			car:  ScoredCar{Car: Car{Brand: "Hyundai", Model: "i20", Year: 2020, BasePrice: 1050000, BodyType: "HATCHBACK", FuelEfficiency: 17}},
			req:  Requirement{Budget: 1000000, UsageType: "city", MileagePriority: "High", MaintenancePriority: "Medium"},
			want: "We recommend the 2020 Hyundai i20 because it is slightly above budget but offers strong value, and is compact and ideal for city driving.",
		},
		{
			name: "one clause",
			car:  ScoredCar{Car: Car{Brand: "Fiat", Model: "Punto", Year: 2016, BasePrice: 500000, BodyType: "HATCHBACK", FuelEfficiency: 15}},
			req:  Requirement{Budget: 600000, UsageType: "leisure", MaintenancePriority: "High"},
			want: "We recommend the 2016 Fiat Punto because it fits within your budget.",
		},
		{
			name: "suv fallback for unknown usage",
			car:  ScoredCar{Car: Car{Brand: "Jeep", Model: "Compass", Year: 2019, BasePrice: 3000000, BodyType: "SUV", FuelEfficiency: 12}},
			req:  Requirement{Budget: 1000000, UsageType: "leisure", MaintenancePriority: "Low"},
			want: "We recommend the 2019 Jeep Compass because it provides great space and presence.",
		},
		{
			name: "no clauses",
			car:  ScoredCar{Car: Car{Brand: "Fiat", Model: "Punto", Year: 2015, BasePrice: 2000000, BodyType: "HATCHBACK", FuelEfficiency: 10}},
			req:  Requirement{Budget: 1000000, UsageType: "leisure", MileagePriority: "Medium", MaintenancePriority: "Low"},
			want: "We recommend the 2015 Fiat Punto because it matches your requirements well.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			interpreted := Interpret(tc.req)
			if got := Explain(&tc.car, &interpreted); got != tc.want {
				t.Errorf("Explain() =\n  %q\nwant\n  %q", got, tc.want)
			}
		})
	}
}

func TestExplainFallback(t *testing.T) {
	req := Interpret(Requirement{Budget: 100})
	if got := Explain(nil, &req); got != FallbackExplanation {
		t.Errorf("Explain(nil car) = %q", got)
	}
	car := ScoredCar{Car: Car{Brand: "Tata", Model: "Nexon", Year: 2022}}
	if got := Explain(&car, nil); got != FallbackExplanation {
		t.Errorf("Explain(nil requirement) = %q", got)
	}
}

// TestRecommendFamilyScenario runs interpret, score, select and explain end to end
func TestRecommendFamilyScenario(t *testing.T) {
	req := Interpret(Requirement{Budget: 1600000, UsageType: "FAMILY", MileagePriority: "Medium", MaintenancePriority: "Low"})
	best := SelectBest(ScoreAll(familyInventory(), req))
	if best == nil {
		t.Fatal("expected a recommendation")
	}
	if best.Brand != "Toyota" || best.AIScore != 100 {
		t.Errorf("best = %s %s (%d), want Toyota Fortuner (100)", best.Brand, best.Model, best.AIScore)
	}

	want := "We recommend the 2021 Toyota Fortuner because it fits within your budget, offers excellent fuel efficiency, provides spacious comfort suitable for family use, and is known for reliability and low maintenance cost."
	if got := Explain(best, &req); got != want {
		t.Errorf("Explain() = %q", got)
	}
}
