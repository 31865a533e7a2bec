package lookup

// Outcome classifies a registry response by how many models matched.
type Outcome int

const (
	// NotFound means no model matched the display name.
	NotFound Outcome = iota

	// Found means exactly one model matched.
	Found

	// MultipleFound means the display name is ambiguous.
	MultipleFound
)

// OutcomeOf returns the outcome for n matching models.
func OutcomeOf(n int) Outcome {
	switch {
	case n <= 0:
		return NotFound
	case n == 1:
		return Found
	default:
		return MultipleFound
	}
}

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not_found"
	case Found:
		return "found"
	case MultipleFound:
		return "multiple_found"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
