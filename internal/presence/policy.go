package presence

// Classify maps a containment result and reporting method to an outcome and
// a human-readable reason. Pure and deterministic; the absent short-circuits
// (no active window, no active boundary) are decided upstream in the engine
// before containment is ever computed.
//
//	contained       → present, regardless of method
//	outside, manual → late
//	outside, auto   → outside
func Classify(contained bool, method Method) (Status, string) {
	switch {
	case contained:
		return StatusPresent, "present inside geofence"
	case method == MethodManual:
		return StatusLate, "late (manual check-in)"
	default:
		return StatusOutside, "outside geofence"
	}
}
