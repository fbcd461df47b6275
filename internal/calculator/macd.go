package calculator

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// MACD returns the MACD line, its signal line and the histogram.
func MACD(closes []float64) (line, signal, hist []float64) {
	fast := EMA(closes, macdFast)
	slow := EMA(closes, macdSlow)
	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal = EMA(line, macdSignal)
	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}
