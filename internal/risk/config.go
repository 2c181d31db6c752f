package risk

// Config holds the scoring rules.
type Config struct {
	// OverSpeedKmh: speeds strictly above this are over-speed.
	OverSpeedKmh int

	// MaxHardBrakes: counts strictly above this are excess braking.
	MaxHardBrakes int

	SpeedWeight float64 // points per km/h
	BrakeWeight float64 // points per hard brake

	// GroupMultiplier scales the base risk of any trip outside group 0.
	GroupMultiplier float64

	AdverseWeatherPenalty float64
	HeavyTrafficPenalty   float64

	// MaxScore caps the base and the final score.
	MaxScore float64
}

// DefaultConfig returns the standard scoring rules.
func DefaultConfig() Config {
	return Config{
		OverSpeedKmh:          80,
		MaxHardBrakes:         2,
		SpeedWeight:           0.1,
		BrakeWeight:           5,
		GroupMultiplier:       1.2,
		AdverseWeatherPenalty: 10,
		HeavyTrafficPenalty:   5,
		MaxScore:              100,
	}
}
