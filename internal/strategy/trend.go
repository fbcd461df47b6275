package strategy

import "SetupSentinel/internal/model"

// ClassifyTrend labels the last frame against the configured boundary.
// It returns false when the boundary value is undefined for that frame.
func ClassifyTrend(last model.IndicatorFrame, boundary model.TrendBoundary) (model.TrendState, bool) {
	var level float64
	switch boundary {
	case model.BoundaryMA60:
		if last.MA60 == nil {
			return model.TrendState{}, false
		}
		level = *last.MA60
	default:
		boundary = model.BoundaryEMA20
		level = last.EMA20
	}

	ts := model.TrendState{Direction: model.Downtrend, MACDBias: model.Bearish, Boundary: boundary}
	if last.Close > level {
		ts.Direction = model.Uptrend
	}
	if last.MACDHist > 0 {
		ts.MACDBias = model.Bullish
	}
	return ts, true
}
