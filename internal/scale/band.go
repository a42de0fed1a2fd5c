// Package scale computes axis scales and stacking layout from a chart
// spec and a record set.
//
// The category axis uses an ordinal band scale whose domain preserves
// first-appearance order; the value axis is linear with a mode-dependent
// domain. Stack offsets are computed per category as cumulative sums in
// series-declaration order, optionally normalized to 1 for percent mode.
package scale

// Band is an ordinal scale mapping discrete values to contiguous, padded
// pixel intervals. Domain order is significant and preserved.
type Band struct {
	domain  []string
	index   map[string]int
	lo, hi  float64
	padding float64 // ratio of each step reserved as gap, in [0,1)
	step    float64
	width   float64
}

// NewBand creates a band scale over [lo, hi] with the given padding ratio.
func NewBand(domain []string, lo, hi, padding float64) *Band {
	b := &Band{
		domain:  append([]string(nil), domain...),
		index:   make(map[string]int, len(domain)),
		lo:      lo,
		hi:      hi,
		padding: padding,
	}
	for i, d := range b.domain {
		b.index[d] = i
	}
	if n := len(b.domain); n > 0 {
		b.step = (hi - lo) / float64(n)
		b.width = b.step * (1 - padding)
	}
	return b
}

// Position returns the starting coordinate of the band for the given
// domain value. The second return is false for values outside the domain.
func (b *Band) Position(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return b.lo + float64(i)*b.step + b.step*b.padding/2, true
}

// Bandwidth returns the drawable width of each band.
func (b *Band) Bandwidth() float64 {
	return b.width
}

// Step returns the full per-band interval including padding.
func (b *Band) Step() float64 {
	return b.step
}

// Domain returns the domain values in order.
func (b *Band) Domain() []string {
	return b.domain
}

// Len returns the number of domain values.
func (b *Band) Len() int {
	return len(b.domain)
}
