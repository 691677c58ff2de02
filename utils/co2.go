package utils

import "github.com/echohabit/server/models"

// One tree absorbs roughly 22 kg of CO2 per year.
const treeAbsorptionKgPerYear = 22.0

// ActivityValue returns the fixed (points, co2Kg) pair for an activity type.
// Unknown types yield (0, 0.0) rather than an error so that stale clients
// degrade to a zero-value activity instead of failing the upload.
func ActivityValue(activityType string) (int, float64) {
	v, ok := models.ActivityValues[activityType]
	if !ok {
		return 0, 0.0
	}
	return v.Points, v.CO2SavedKg
}

// CO2ToTrees converts saved CO2 kilograms into equivalent trees per year.
func CO2ToTrees(co2Kg float64) int {
	return int(co2Kg * 365 / treeAbsorptionKgPerYear)
}

// LevelFor selects the first ladder tier whose range contains totalPoints,
// falling back to the lowest tier. The ladder covers [0, inf) so the
// fallback only matters for negative input.
func LevelFor(totalPoints int) models.Level {
	for _, l := range models.Levels {
		if totalPoints >= l.MinPoints && totalPoints <= l.MaxPoints {
			return l
		}
	}
	return models.Levels[0]
}

// LevelProgress returns progress through the current tier as 0-100.
func LevelProgress(totalPoints int) float64 {
	level := LevelFor(totalPoints)
	if level.Index == len(models.Levels) {
		return 100
	}
	pointsInLevel := totalPoints - level.MinPoints
	levelRange := level.MaxPoints - level.MinPoints + 1
	progress := float64(pointsInLevel) / float64(levelRange) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

var activityDisplayNames = map[string]string{
	models.TypeBike:            "Biked",
	models.TypeWalk:            "Walked",
	models.TypePublicTransport: "Public Transport",
	models.TypeVeganMeal:       "Vegan Meal",
	models.TypeVegetarianMeal:  "Vegetarian Meal",
	models.TypeLocalFood:       "Local Food",
	models.TypeUseTumbler:      "Used Tumbler",
	models.TypeToteBag:         "Used Tote Bag",
	models.TypeNoPlasticStraw:  "No Plastic Straw",
	models.TypeRecycling:       "Recycled",
	models.TypeUnplugDevices:   "Unplugged Devices",
	models.TypeLEDLights:       "Used LED Lights",
	models.TypeACOff:           "Turned AC Off",
}

var activityEmojis = map[string]string{
	models.TypeBike:            "🚴",
	models.TypeWalk:            "🚶",
	models.TypePublicTransport: "🚌",
	models.TypeVeganMeal:       "🥗",
	models.TypeVegetarianMeal:  "🥙",
	models.TypeLocalFood:       "🍽️",
	models.TypeUseTumbler:      "🥤",
	models.TypeToteBag:         "🛍️",
	models.TypeNoPlasticStraw:  "🥤",
	models.TypeRecycling:       "♻️",
	models.TypeUnplugDevices:   "🔌",
	models.TypeLEDLights:       "💡",
	models.TypeACOff:           "❄️",
}

// ActivityDisplayName returns the human readable label for an activity type.
func ActivityDisplayName(activityType string) string {
	if name, ok := activityDisplayNames[activityType]; ok {
		return name
	}
	return "Unknown Activity"
}

// ActivityEmoji returns the emoji for an activity type.
func ActivityEmoji(activityType string) string {
	if e, ok := activityEmojis[activityType]; ok {
		return e
	}
	return "🌍"
}
