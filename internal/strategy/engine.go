package strategy

import (
	"errors"

	"SetupSentinel/internal/model"
)

// DefaultThreshold is the setup count that triggers an alert when an
// instrument has no override.
const DefaultThreshold = 9

// ErrEmptySeries is returned when there are no frames to evaluate.
var ErrEmptySeries = errors.New("empty indicator series")

// Params configures one evaluation.
type Params struct {
	SetupWindow   int
	Threshold     int
	TrendBoundary model.TrendBoundary
}

// Classify maps setup and trend to a category. A nil trend skips StrongBuy.
// Rules are checked in priority order; the first match wins.
func Classify(setup model.SetupState, trend *model.TrendState, threshold int) (model.Category, bool) {
	if threshold < 1 {
		threshold = 1
	}
	switch {
	case setup.BuyCount >= threshold && trend != nil && trend.Direction == model.Uptrend:
		return model.CategoryStrongBuy, true
	case setup.BuyCount >= threshold:
		return model.CategoryBuy, true
	case setup.SellCount >= threshold:
		return model.CategorySell, true
	default:
		return model.CategoryNone, false
	}
}

// Evaluate runs the setup counter, the trend classifier and the signal
// classifier over the frames of one instrument.
func Evaluate(inst model.Instrument, frames []model.IndicatorFrame, p Params) (*model.AlertDecision, error) {
	if len(frames) == 0 {
		return nil, ErrEmptySeries
	}
	last := frames[len(frames)-1]
	setup := CountSetup(frames, p.SetupWindow)

	var trend *model.TrendState
	if ts, ok := ClassifyTrend(last, p.TrendBoundary); ok {
		trend = &ts
	}

	category, chart := Classify(setup, trend, p.Threshold)

	prev := last.Close
	if len(frames) > 1 {
		prev = frames[len(frames)-2].Close
	}

	return &model.AlertDecision{
		Category:       category,
		Instrument:     inst,
		Date:           last.Date,
		Price:          last.Close,
		PrevClose:      prev,
		Setup:          setup,
		Trend:          trend,
		ThresholdUsed:  max(p.Threshold, 1),
		ChartRequested: chart,
	}, nil
}
