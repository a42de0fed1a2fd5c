package scale

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale from domain [d0,d1] to range [r0,r1].
// A degenerate domain (d0 == d1) maps every value to r0.
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Scale maps a domain value into the range.
func (l *Linear) Scale(v float64) float64 {
	if l.d1 == l.d0 {
		return l.r0
	}
	t := (v - l.d0) / (l.d1 - l.d0)
	return l.r0 + t*(l.r1-l.r0)
}

// Domain returns the scale's domain bounds.
func (l *Linear) Domain() (float64, float64) {
	return l.d0, l.d1
}

// Ticks returns up to n round-ish tick values across the domain.
func (l *Linear) Ticks(n int) []float64 {
	if n <= 0 || l.d1 == l.d0 {
		return nil
	}
	ticks := make([]float64, 0, n+1)
	step := (l.d1 - l.d0) / float64(n)
	for i := 0; i <= n; i++ {
		ticks = append(ticks, l.d0+step*float64(i))
	}
	return ticks
}
