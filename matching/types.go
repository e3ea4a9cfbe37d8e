package matching

// Requirement is a customer's raw stated preferences as captured by the
// requirement form. Values are free-form and are normalized by Interpret.
type Requirement struct {
	Budget              float64 `json:"budget"`
	UsageType           string  `json:"usage_type"`
	MileagePriority     string  `json:"mileage_priority"`
	MaintenancePriority string  `json:"maintenance_priority"`
}

// UsagePattern is the normalized driving pattern. It is an open string type:
// unrecognized inputs are kept uppercased rather than rejected.
type UsagePattern string

const (
	UsageFamily    UsagePattern = "FAMILY"
	UsageCity      UsagePattern = "CITY"
	UsageLongDrive UsagePattern = "LONG_DRIVE"
	UsageBusiness  UsagePattern = "BUSINESS"
)

// Known reports whether p is one of the four recognized patterns.
func (p UsagePattern) Known() bool {
	_, ok := usageTable[p]
	return ok
}

// MaintenanceTier classifies how strictly reliable brands are favored.
type MaintenanceTier string

const (
	TierLowMaintenance MaintenanceTier = "LOW_MAINTENANCE"
	TierBalanced       MaintenanceTier = "BALANCED"
	TierNoRestriction  MaintenanceTier = "NO_RESTRICTION"
)

// BudgetCategory is the coarse price tier derived from the budget.
type BudgetCategory string

const (
	BudgetEntry   BudgetCategory = "ENTRY"
	BudgetMid     BudgetCategory = "MID"
	BudgetPremium BudgetCategory = "PREMIUM"
)

// Importance levels attached to mileage and maintenance interpretations.
const (
	ImportanceCritical  = "critical"
	ImportancePreferred = "preferred"
	ImportanceOptional  = "optional"
	ImportanceModerate  = "moderate"
	ImportanceNone      = "none"
)

// InterpretedRequirement is the structured form of a Requirement used by
// scoring, explanation and display.
type InterpretedRequirement struct {
	PreferredBody    []string        `json:"preferred_body"`
	MinMileage       *float64        `json:"min_mileage"`
	MaintenanceScore MaintenanceTier `json:"maintenance_score"`
	UsagePattern     UsagePattern    `json:"usage_pattern"`
	BudgetCategory   BudgetCategory  `json:"budget_category"`
	Priority         []string        `json:"priority"`
	Interpretations  Interpretations `json:"interpretations"`
}

// Interpretations keeps the per-axis detail behind an InterpretedRequirement.
type Interpretations struct {
	Usage       UsageInterpretation       `json:"usage"`
	Mileage     MileageInterpretation     `json:"mileage"`
	Maintenance MaintenanceInterpretation `json:"maintenance"`
	Budget      BudgetInterpretation      `json:"budget"`
}

type UsageInterpretation struct {
	Type            UsagePattern `json:"type"`
	Characteristics []string     `json:"characteristics"`
	Description     string       `json:"description"`
}

type MileageInterpretation struct {
	Priority    string   `json:"priority"`
	MinValue    *float64 `json:"min_value"`
	Description string   `json:"description"`
	Importance  string   `json:"importance"`
}

type MaintenanceInterpretation struct {
	Priority        string          `json:"priority"`
	Score           MaintenanceTier `json:"score"`
	PreferredBrands []string        `json:"preferred_brands"`
	AvoidBrands     []string        `json:"avoid_brands"`
	Description     string          `json:"description"`
	Importance      string          `json:"importance"`
}

type BudgetInterpretation struct {
	Amount      float64        `json:"amount"`
	Category    BudgetCategory `json:"category"`
	Range       PriceRange     `json:"range"`
	Description string         `json:"description"`
	TypicalCars []string       `json:"typical_cars"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Car is an inventory record. The pipeline only reads it.
type Car struct {
	ID             int64   `json:"id"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	Year           int     `json:"year"`
	FuelType       string  `json:"fuel_type"`
	Mileage        int     `json:"mileage"` // odometer, km
	BasePrice      float64 `json:"base_price"`
	Condition      string  `json:"condition"`
	BodyType       string  `json:"body_type"`
	FuelEfficiency float64 `json:"fuel_efficiency"` // km/l
	IsActive       bool    `json:"is_active"`
	ImageURL       string  `json:"image_url,omitempty"`
}

// SubScore is one component of a car's AI score.
type SubScore struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// MatchDetails is the per-component breakdown of an AI score.
type MatchDetails struct {
	BudgetScore      SubScore `json:"budget_score"`
	MileageScore     SubScore `json:"mileage_score"`
	UsageScore       SubScore `json:"usage_score"`
	MaintenanceScore SubScore `json:"maintenance_score"`
	BonusScore       SubScore `json:"bonus_score"`
}

// Total sums the five components.
func (d MatchDetails) Total() int {
	return d.BudgetScore.Score + d.MileageScore.Score + d.UsageScore.Score +
		d.MaintenanceScore.Score + d.BonusScore.Score
}

// ScoredCar is a copy of a Car with its score attached.
type ScoredCar struct {
	Car
	AIScore      int          `json:"ai_score"`
	MatchDetails MatchDetails `json:"match_details"`
}
