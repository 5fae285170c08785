package domain

// symbolConditions maps FMI weather symbols to platform condition strings.
// Symbol 0 is the project-specific clear-night value, not defined by FMI.
var symbolConditions = map[int]string{
	0:  "clear-night",
	1:  "sunny",           // clear
	2:  "partlycloudy",    // partially clear
	21: "rainy",           // light showers
	22: "pouring",         // showers
	23: "pouring",         // strong rain showers
	3:  "cloudy",          // cloudy
	31: "rainy",           // weak rain
	32: "rainy",           // rain
	33: "pouring",         // heavy rain
	41: "snowy-rainy",     // weak snow showers
	42: "cloudy",          // cloudy
	43: "snowy",           // strong snow showers
	51: "snowy",           // light snow
	52: "snowy",           // snow
	53: "snowy",           // heavy snow
	61: "lightning",       // thunderstorms
	62: "lightning-rainy", // strong thunderstorms
	63: "lightning",       // thunderstorms
	64: "lightning-rainy", // strong thunderstorms
	71: "rainy",           // weak sleet
	72: "rainy",           // sleet
	73: "pouring",         // heavy sleet
	81: "rainy",           // light sleet showers
	82: "rainy",           // sleet showers
	83: "pouring",         // heavy sleet showers
	91: "fog",
	92: "fog",
}

// Condition returns the platform condition string for an FMI weather symbol,
// or "" for unknown symbols.
func Condition(symbol int) string {
	return symbolConditions[symbol]
}

// CompassPoint converts a wind direction in degrees to an eight-point
// compass string. Returns "" when the direction is missing.
func CompassPoint(degrees *float64) string {
	if degrees == nil {
		return ""
	}
	d := *degrees
	switch {
	case d <= 23 || d > 338:
		return "N"
	case d <= 68:
		return "NE"
	case d <= 113:
		return "E"
	case d <= 158:
		return "SE"
	case d <= 203:
		return "S"
	case d <= 248:
		return "SW"
	case d <= 293:
		return "W"
	default:
		return "NW"
	}
}
