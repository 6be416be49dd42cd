package grips

import "slices"

// CycleEnum returns the member following current, wrapping around. An
// unknown current yields the first member.
func CycleEnum[T comparable](values []T, current T) T {
	var zero T
	if len(values) == 0 {
		return zero
	}
	i := slices.Index(values, current)
	return values[(i+1)%len(values)]
}
