package intake

// Suitability is the tri-state triage verdict. Unclassified maps to a
// NULL column; once a session leaves Unclassified, automated triage never
// moves it again.
type Suitability string

const (
	Unclassified Suitability = "unclassified"
	Suitable     Suitability = "suitable"
	NotSuitable  Suitability = "not_suitable"
)

func FromPtr(v *bool) Suitability {
	switch {
	case v == nil:
		return Unclassified
	case *v:
		return Suitable
	default:
		return NotSuitable
	}
}
