package temporal

// EMA is a positional exponential moving average over a fixed-length vector.
type EMA struct {
	alpha  float64
	values []float64
}

// NewEMA creates an empty average; alpha outside (0,1] uses the default.
func NewEMA(alpha float64) *EMA {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &EMA{alpha: alpha}
}

// Update blends v into the average. The first vector after a Clear becomes
// the baseline unblended.
func (e *EMA) Update(v []float64) []float64 {
	if e.values == nil || len(e.values) != len(v) {
		e.values = append([]float64(nil), v...)
	} else {
		for i := range e.values {
			e.values[i] = e.values[i]*(1-e.alpha) + v[i]*e.alpha
		}
	}
	return append([]float64(nil), e.values...)
}

// Clear drops the running average.
func (e *EMA) Clear() { e.values = nil }

// Empty reports whether the next Update will become the baseline.
func (e *EMA) Empty() bool { return e.values == nil }
