package calculator

// Lag returns the value k bars earlier for every index; the first k entries are nil.
func Lag(values []float64, k int) []*float64 {
	out := make([]*float64, len(values))
	for i := k; i < len(values); i++ {
		v := values[i-k]
		out[i] = &v
	}
	return out
}
