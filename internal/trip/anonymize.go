package trip

// Anonymize returns the trip without the driver's identity. The record is
// passed by value, so the caller's copy keeps its identifying fields.
func Anonymize(r Record) Trip {
	return r.Trip
}

// AnonymizeAll anonymizes a batch, preserving order.
func AnonymizeAll(records []Record) []Trip {
	trips := make([]Trip, len(records))
	for i, r := range records {
		trips[i] = Anonymize(r)
	}
	return trips
}
