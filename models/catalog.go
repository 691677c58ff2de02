package models

// Activity categories.
const (
	CategoryMoveGreen  = "move_green"
	CategoryEatClean   = "eat_clean"
	CategoryCutWaste   = "cut_waste"
	CategorySaveEnergy = "save_energy"
)

// Activity types.
const (
	TypeBike            = "bike"
	TypeWalk            = "walk"
	TypePublicTransport = "public_transport"
	TypeVeganMeal       = "vegan_meal"
	TypeVegetarianMeal  = "vegetarian_meal"
	TypeLocalFood       = "local_food"
	TypeUseTumbler      = "use_tumbler"
	TypeToteBag         = "tote_bag"
	TypeNoPlasticStraw  = "no_plastic_straw"
	TypeRecycling       = "recycling"
	TypeUnplugDevices   = "unplug_devices"
	TypeLEDLights       = "led_lights"
	TypeACOff           = "ac_off"
)

// Card styles.
const (
	CardStyleGlassmorphism = "glassmorphism"
	CardStyleSplit         = "split"
	CardStyleMinimalist    = "minimalist"
)

// ActivityValue is the fixed (points, CO2 kg) pair awarded per activity type.
type ActivityValue struct {
	Points     int
	CO2SavedKg float64
}

// ActivityValues maps every recognized activity type to its fixed reward.
// These values must stay in sync with the mobile clients.
var ActivityValues = map[string]ActivityValue{
	TypeBike:            {Points: 30, CO2SavedKg: 3.0},
	TypePublicTransport: {Points: 25, CO2SavedKg: 2.5},
	TypeWalk:            {Points: 15, CO2SavedKg: 1.5},
	TypeVeganMeal:       {Points: 20, CO2SavedKg: 2.0},
	TypeVegetarianMeal:  {Points: 15, CO2SavedKg: 1.5},
	TypeLocalFood:       {Points: 12, CO2SavedKg: 1.2},
	TypeUseTumbler:      {Points: 10, CO2SavedKg: 0.5},
	TypeToteBag:         {Points: 10, CO2SavedKg: 0.5},
	TypeNoPlasticStraw:  {Points: 5, CO2SavedKg: 0.2},
	TypeRecycling:       {Points: 8, CO2SavedKg: 0.8},
	TypeUnplugDevices:   {Points: 8, CO2SavedKg: 0.8},
	TypeLEDLights:       {Points: 10, CO2SavedKg: 1.0},
	TypeACOff:           {Points: 15, CO2SavedKg: 1.5},
}

// CategoryTypes maps each category to its activity types, used for request
// validation on the upload endpoint.
var CategoryTypes = map[string][]string{
	CategoryMoveGreen:  {TypeBike, TypeWalk, TypePublicTransport},
	CategoryEatClean:   {TypeVeganMeal, TypeVegetarianMeal, TypeLocalFood},
	CategoryCutWaste:   {TypeUseTumbler, TypeToteBag, TypeNoPlasticStraw, TypeRecycling},
	CategorySaveEnergy: {TypeUnplugDevices, TypeLEDLights, TypeACOff},
}

// ValidCategory reports whether the category is one of the four buckets.
func ValidCategory(category string) bool {
	_, ok := CategoryTypes[category]
	return ok
}

// ValidCardStyle reports whether the style is one of the renderable ones.
func ValidCardStyle(style string) bool {
	switch style {
	case CardStyleGlassmorphism, CardStyleSplit, CardStyleMinimalist:
		return true
	}
	return false
}

// ValidActivityType reports whether the type belongs to the given category.
func ValidActivityType(category, activityType string) bool {
	for _, t := range CategoryTypes[category] {
		if t == activityType {
			return true
		}
	}
	return false
}

// Level is one tier of the five-bucket ladder over cumulative points.
type Level struct {
	Index     int    `json:"index"` // 1-based
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	MinPoints int    `json:"min_points"`
	MaxPoints int    `json:"max_points"` // inclusive; last tier is unbounded
}

const maxInt = int(^uint(0) >> 1)

// Levels is the ladder, ordered ascending by MinPoints and covering [0, inf).
var Levels = []Level{
	{Index: 1, Name: "Seedling", Emoji: "🌱", MinPoints: 0, MaxPoints: 99},
	{Index: 2, Name: "Sprout", Emoji: "🌿", MinPoints: 100, MaxPoints: 499},
	{Index: 3, Name: "Plant", Emoji: "🪴", MinPoints: 500, MaxPoints: 999},
	{Index: 4, Name: "Tree", Emoji: "🌳", MinPoints: 1000, MaxPoints: 2499},
	{Index: 5, Name: "Forest", Emoji: "🌲", MinPoints: 2500, MaxPoints: maxInt},
}

// BadgeInfo describes one unlockable badge and its numeric requirement.
type BadgeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Requirement int    `json:"requirement"`
}

// Badge IDs.
const (
	BadgeFireStarter     = "fire_starter"
	BadgePedalPower      = "pedal_power"
	BadgePlantPioneer    = "plant_pioneer"
	BadgeWasteWarrior    = "waste_warrior"
	BadgePlanetHero      = "planet_hero"
	BadgeConsistencyKing = "consistency_king"
	BadgeEcoLegend       = "eco_legend"
)

// Badges is the fixed badge catalog.
var Badges = []BadgeInfo{
	{ID: BadgeFireStarter, Name: "Fire Starter", Emoji: "🔥", Description: "7-day streak", Requirement: 7},
	{ID: BadgePedalPower, Name: "Pedal Power", Emoji: "🚴", Description: "10 bike activities", Requirement: 10},
	{ID: BadgePlantPioneer, Name: "Plant Pioneer", Emoji: "🥗", Description: "20 vegan meals", Requirement: 20},
	{ID: BadgeWasteWarrior, Name: "Waste Warrior", Emoji: "♻️", Description: "50 zero-waste actions", Requirement: 50},
	{ID: BadgePlanetHero, Name: "Planet Hero", Emoji: "🌍", Description: "100 total activities", Requirement: 100},
	{ID: BadgeConsistencyKing, Name: "Consistency King", Emoji: "👑", Description: "30-day streak", Requirement: 30},
	{ID: BadgeEcoLegend, Name: "Eco Legend", Emoji: "⭐", Description: "365-day streak", Requirement: 365},
}
