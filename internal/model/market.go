package model

import (
	"strings"
	"time"
)

// PriceBar represents a single daily candlestick bar.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// CurrencyClass tags the currency an instrument is quoted in.
type CurrencyClass string

const (
	KRW CurrencyClass = "KRW"
	USD CurrencyClass = "USD"
	JPY CurrencyClass = "JPY"
)

// Instrument is a configured symbol with its display name and currency.
type Instrument struct {
	Symbol    string
	Name      string
	Currency  CurrencyClass
	Threshold int
}

// DeriveCurrency guesses the quote currency from Yahoo-style symbol conventions.
func DeriveCurrency(symbol string) CurrencyClass {
	s := strings.ToUpper(symbol)
	switch {
	case strings.HasPrefix(s, "^KS"), strings.HasPrefix(s, "^KQ"),
		strings.HasSuffix(s, ".KS"), strings.HasSuffix(s, ".KQ"):
		return KRW
	case strings.HasSuffix(s, ".T"), s == "^N225":
		return JPY
	default:
		return USD
	}
}

// PriceSeries holds the fetched bars of one instrument.
type PriceSeries struct {
	Instrument Instrument
	Bars       []PriceBar
	FetchedAt  time.Time
}
