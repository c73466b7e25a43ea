package linkage

// Exclusion is the set of ERP order numbers already consumed by a match
// pass. It is passed by value between passes and never mutated in place:
// With returns a copy, so a caller holding an earlier generation of the set
// is unaffected by later matches. This keeps each pass a pure function of
// its inputs and the exclusion state it was handed.
type Exclusion map[string]struct{}

// NewExclusion returns an empty exclusion set.
func NewExclusion() Exclusion { return Exclusion{} }

// Contains reports whether the order number is already consumed.
func (e Exclusion) Contains(orderNumber string) bool {
	_, ok := e[orderNumber]
	return ok
}

// With returns a new exclusion set that additionally contains the given
// order numbers. The receiver is left unchanged.
func (e Exclusion) With(orderNumbers ...string) Exclusion {
	next := make(Exclusion, len(e)+len(orderNumbers))
	for k := range e {
		next[k] = struct{}{}
	}
	for _, n := range orderNumbers {
		next[n] = struct{}{}
	}
	return next
}

// Len returns the number of consumed order numbers.
func (e Exclusion) Len() int { return len(e) }
