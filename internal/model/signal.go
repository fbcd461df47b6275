package model

import "time"

// SetupState is the buy/sell streak count after consuming the lookback window.
// At most one of the two counts is non-zero.
type SetupState struct {
	BuyCount  int
	SellCount int
}

// Direction is the price position relative to the trend boundary.
type Direction string

const (
	Uptrend   Direction = "UPTREND"
	Downtrend Direction = "DOWNTREND"
)

// MACDBias is the sign of the MACD histogram.
type MACDBias string

const (
	Bullish MACDBias = "BULLISH"
	Bearish MACDBias = "BEARISH"
)

// TrendBoundary selects the moving average used to classify the trend.
type TrendBoundary string

const (
	BoundaryEMA20 TrendBoundary = "ema20"
	BoundaryMA60  TrendBoundary = "ma60"
)

// TrendState is computed from the most recent indicator frame.
type TrendState struct {
	Direction Direction
	MACDBias  MACDBias
	Boundary  TrendBoundary
}

// Category is the alert class produced by the signal classifier.
type Category string

const (
	CategoryStrongBuy Category = "STRONG_BUY"
	CategoryBuy       Category = "BUY"
	CategorySell      Category = "SELL"
	CategoryNone      Category = "NONE"
)

// AlertDecision is the final output of the strategy engine for one instrument.
// Trend is nil when the trend boundary was undefined for the last bar.
type AlertDecision struct {
	Category       Category
	Instrument     Instrument
	Date           time.Time
	Price          float64
	PrevClose      float64
	Setup          SetupState
	Trend          *TrendState
	ThresholdUsed  int
	ChartRequested bool
}

// Notify reports whether the decision should be delivered.
func (d *AlertDecision) Notify() bool {
	return d.Category != CategoryNone
}
