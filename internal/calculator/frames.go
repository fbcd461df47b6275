package calculator

import "SetupSentinel/internal/model"

const (
	EMAPeriod = 20
	MAWindow  = 60
	LagBars   = 4
)

// Compute derives one IndicatorFrame per bar. Every field at index i depends
// only on bars[0..i].
func Compute(bars []model.PriceBar) []model.IndicatorFrame {
	closes := extractCloses(bars)
	ema := EMA(closes, EMAPeriod)
	ma := SMA(closes, MAWindow)
	line, signal, hist := MACD(closes)
	lag := Lag(closes, LagBars)

	frames := make([]model.IndicatorFrame, len(bars))
	for i, b := range bars {
		frames[i] = model.IndicatorFrame{
			Date:       b.Date,
			Close:      b.Close,
			EMA20:      ema[i],
			MA60:       ma[i],
			MACD:       line[i],
			SignalLine: signal[i],
			MACDHist:   hist[i],
			CloseLag4:  lag[i],
		}
	}
	return frames
}
