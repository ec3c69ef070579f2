package domain

// Parameter is a single trainable tensor owned by a module.
//
// Pointer identity is the unit of deduplication: two modules holding the
// same *Parameter share one storage (weight tying), and counters must
// count it once per measurement, not once per reference.
type Parameter struct {
	Name  string
	Numel int64 // number of scalar elements

	// Frozen parameters are excluded from training and therefore from
	// all size measurements.
	Frozen bool
}

// NewParameter creates a trainable parameter with the given element count.
func NewParameter(name string, numel int64) *Parameter {
	return &Parameter{Name: name, Numel: numel}
}
