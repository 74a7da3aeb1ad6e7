package weather

var compassDirections = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindDirection converts wind direction in degrees to a 16-point compass
// reading (N, NNE, NE, ...).
func WindDirection(degrees float64) string {
	idx := int((normalizeDegrees(degrees)+11.25)/22.5) % 16
	return compassDirections[idx]
}

func normalizeDegrees(degrees float64) float64 {
	d := degrees
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return d
}
