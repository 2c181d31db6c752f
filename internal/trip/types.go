package trip

import (
	"fmt"
	"time"
)

// Identity holds the fields that identify a driver. It is stripped before
// any analysis runs.
type Identity struct {
	DriverName    string
	LicenseNumber string
}

// Trip is the anonymous part of a trip record: everything the analysis
// stages are allowed to see.
type Trip struct {
	// ID is a random identifier assigned at capture time.
	ID string

	// SpeedKmh is the average speed reported for the trip. Never negative.
	SpeedKmh int

	// HardBrakes is the number of hard braking events. Never negative.
	HardBrakes int

	// Weather and Traffic are free text as entered. Use WeatherOf and
	// TrafficOf to get the category.
	Weather string
	Traffic string

	// CapturedAt is when the collector finished the record.
	CapturedAt time.Time

	// Group is the driving-pattern cluster label (0 or 1). Zero until the
	// clusterer has run.
	Group int
}

// Record is one trip as collected, identity included.
type Record struct {
	Identity
	Trip
}

// Timestamp returns the capture time in seconds since the Unix epoch.
func (t Trip) Timestamp() float64 {
	return float64(t.CapturedAt.UnixNano()) / float64(time.Second)
}

// Features returns the clustering feature vector (speed, hard brakes).
func (t Trip) Features() []float64 {
	return []float64{float64(t.SpeedKmh), float64(t.HardBrakes)}
}

func (t Trip) String() string {
	return fmt.Sprintf("{id=%s speed=%d hard_brakes=%d weather=%q traffic=%q timestamp=%.3f}",
		t.ID, t.SpeedKmh, t.HardBrakes, t.Weather, t.Traffic, t.Timestamp())
}

func (r Record) String() string {
	return fmt.Sprintf("{driver_name=%q license_number=%q id=%s speed=%d hard_brakes=%d weather=%q traffic=%q timestamp=%.3f}",
		r.DriverName, r.LicenseNumber, r.ID, r.SpeedKmh, r.HardBrakes, r.Weather, r.Traffic, r.Timestamp())
}

// Redacted returns the record formatted with identifying fields masked.
func (r Record) Redacted() string {
	return Record{
		Identity: Identity{DriverName: "***", LicenseNumber: "***"},
		Trip:     r.Trip,
	}.String()
}
