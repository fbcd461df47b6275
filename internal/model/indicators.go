package model

import "time"

// IndicatorFrame holds the derived values for one bar. Nil pointers mark
// values that are undefined because the history is too short.
type IndicatorFrame struct {
	Date       time.Time
	Close      float64
	EMA20      float64
	MA60       *float64
	MACD       float64
	SignalLine float64
	MACDHist   float64
	CloseLag4  *float64
}
