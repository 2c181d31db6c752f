package trip

import "strings"

// Weather is the normalized weather category of a trip.
type Weather string

const (
	WeatherClear Weather = "clear"
	WeatherRain  Weather = "rain"
	WeatherSnow  Weather = "snow"
	WeatherFog   Weather = "fog"
	WeatherOther Weather = "other"
)

// WeatherOf maps free text to a category. Matching ignores case and
// surrounding whitespace; anything unknown is WeatherOther.
func WeatherOf(s string) Weather {
	switch w := Weather(strings.ToLower(strings.TrimSpace(s))); w {
	case WeatherClear, WeatherRain, WeatherSnow, WeatherFog:
		return w
	default:
		return WeatherOther
	}
}

// Adverse reports whether the weather makes driving riskier.
func (w Weather) Adverse() bool {
	return w == WeatherRain || w == WeatherSnow || w == WeatherFog
}

// Traffic is the normalized traffic category of a trip.
type Traffic string

const (
	TrafficLight    Traffic = "light"
	TrafficModerate Traffic = "moderate"
	TrafficHeavy    Traffic = "heavy"
	TrafficOther    Traffic = "other"
)

// TrafficOf maps free text to a category, ignoring case and surrounding
// whitespace.
func TrafficOf(s string) Traffic {
	switch t := Traffic(strings.ToLower(strings.TrimSpace(s))); t {
	case TrafficLight, TrafficModerate, TrafficHeavy:
		return t
	default:
		return TrafficOther
	}
}
