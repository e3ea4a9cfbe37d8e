package matching

// usageProfile is one row of the usage lookup table.
type usageProfile struct {
	preferredBody   []string
	characteristics []string
	priority        []string
	description     string
}

var usageTable = map[UsagePattern]usageProfile{
	UsageFamily: {
		preferredBody:   []string{"SUV", "MUV", "SEDAN"},
		characteristics: []string{"spacious", "safe", "comfortable"},
		priority:        []string{"safety", "space", "comfort"},
		description:     "Family-oriented vehicle with spacious interiors and safety features",
	},
	UsageCity: {
		preferredBody:   []string{"HATCHBACK", "COMPACT_SUV", "SEDAN"},
		characteristics: []string{"compact", "fuel_efficient", "easy_parking"},
		priority:        []string{"fuel_efficiency", "maneuverability", "compact_size"},
		description:     "City-friendly compact vehicle with excellent fuel efficiency",
	},
	UsageLongDrive: {
		preferredBody:   []string{"SEDAN", "SUV", "LUXURY_SEDAN"},
		characteristics: []string{"comfortable", "stable", "powerful"},
		priority:        []string{"comfort", "stability", "highway_performance"},
		description:     "Highway-ready vehicle with superior comfort and stability",
	},
	UsageBusiness: {
		preferredBody:   []string{"SEDAN", "LUXURY_SEDAN", "SUV"},
		characteristics: []string{"premium_look", "comfortable", "professional"},
		priority:        []string{"brand_image", "aesthetics", "comfort"},
		description:     "Professional-grade vehicle with premium aesthetics",
	},
}

// usageKeywords maps substrings of the raw usage text to a pattern. Order matters.
var usageKeywords = []struct {
	keywords []string
	pattern  UsagePattern
}{
	{[]string{"HIGHWAY", "LONG"}, UsageLongDrive},
	{[]string{"CITY", "COMMUTE"}, UsageCity},
	{[]string{"FAMILY"}, UsageFamily},
	{[]string{"OFF", "ROAD"}, UsageLongDrive},
	{[]string{"BUSINESS"}, UsageBusiness},
}

type mileageProfile struct {
	minMileage  *float64
	description string
	importance  string
}

func floatPtr(v float64) *float64 { return &v }

var mileageTable = map[string]mileageProfile{
	"HIGH": {
		minMileage:  floatPtr(18),
		description: "High fuel efficiency requirement (18+ km/l)",
		importance:  ImportanceCritical,
	},
	"MEDIUM": {
		minMileage:  floatPtr(14),
		description: "Moderate fuel efficiency requirement (14+ km/l)",
		importance:  ImportancePreferred,
	},
	"LOW": {
		description: "No specific fuel efficiency requirement",
		importance:  ImportanceOptional,
	},
}

type maintenanceProfile struct {
	tier            MaintenanceTier
	preferredBrands []string
	avoidBrands     []string
	description     string
	importance      string
}

// maintenanceInputs maps the external Low/Medium/High domain onto internal
// priorities. HIGH means "no restriction", not "strict".
var maintenanceInputs = map[string]string{
	"LOW":    "LOW",
	"MEDIUM": "MEDIUM",
	"HIGH":   "ANY",
}

var maintenanceTable = map[string]maintenanceProfile{
	"LOW": {
		tier:            TierLowMaintenance,
		preferredBrands: []string{"Maruti", "Hyundai", "Honda", "Toyota"},
		avoidBrands:     []string{"Jeep", "Fiat"},
		description:     "Prefer highly reliable brands with low maintenance costs",
		importance:      ImportanceCritical,
	},
	"MEDIUM": {
		tier:            TierBalanced,
		preferredBrands: []string{"Maruti", "Hyundai", "Honda", "Toyota", "Tata", "Mahindra", "Kia"},
		avoidBrands:     []string{},
		description:     "Balanced approach to maintenance and reliability",
		importance:      ImportanceModerate,
	},
	"ANY": {
		tier:            TierNoRestriction,
		preferredBrands: []string{},
		avoidBrands:     []string{},
		description:     "No maintenance restrictions",
		importance:      ImportanceNone,
	},
}

const (
	entryBudgetCeiling = 400000
	midBudgetCeiling   = 700000
)

var budgetDescriptions = map[BudgetCategory]struct {
	description string
	typicalCars []string
}{
	BudgetEntry:   {"Entry-level budget segment (< 4L)", []string{"Alto", "Kwid", "Santro", "Wagon R"}},
	BudgetMid:     {"Mid-range budget segment (4L - 7L)", []string{"Swift", "i20", "Baleno", "Venue", "Nexon"}},
	BudgetPremium: {"Premium budget segment (> 7L)", []string{"Creta", "Seltos", "Verna", "City", "XUV700"}},
}

// Body-type sets rewarded by the usage sub-score.
var usageBodyScores = map[UsagePattern][]struct {
	bodies []string
	score  int
	reason string
}{
	UsageFamily: {
		{[]string{"SUV", "MUV", "SEDAN"}, 20, "Perfect family car body type"},
		{[]string{"HATCHBACK"}, 10, "Decent family car option"},
	},
	UsageCity: {
		{[]string{"HATCHBACK", "COMPACT_SUV"}, 20, "Perfect city car (compact)"},
		{[]string{"SEDAN"}, 10, "Manageable for city"},
	},
	UsageLongDrive: {
		{[]string{"SEDAN", "SUV", "MUV", "LUXURY_SEDAN"}, 20, "Great for highway stability"},
	},
	UsageBusiness: {
		{[]string{"SEDAN", "LUXURY_SEDAN", "SUV"}, 20, "Professional appearance"},
	},
}

// compactCityModels always count as city cars regardless of body type.
var compactCityModels = []string{"Alto", "Kwid"}

// reliableBrands drive both the maintenance sub-score and the explanation.
var reliableBrands = []string{"Maruti", "Toyota", "Honda", "Hyundai"}

var usageClauses = map[UsagePattern]string{
	UsageFamily:    "provides spacious comfort suitable for family use",
	UsageCity:      "is compact and ideal for city driving",
	UsageLongDrive: "is comfortable and stable for long journeys",
	UsageBusiness:  "features premium styling suitable for professional needs",
}
