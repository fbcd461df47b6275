package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SetupSentinel/internal/model"
)

func TestClassify_PriorityStrongBuyOverBuy(t *testing.T) {
	trend := &model.TrendState{Direction: model.Uptrend, MACDBias: model.Bearish}
	cat, chart := Classify(model.SetupState{BuyCount: 9}, trend, 9)
	assert.Equal(t, model.CategoryStrongBuy, cat)
	assert.True(t, chart)
}

func TestClassify_AllBranches(t *testing.T) {
	up := &model.TrendState{Direction: model.Uptrend, MACDBias: model.Bullish}
	down := &model.TrendState{Direction: model.Downtrend, MACDBias: model.Bearish}
	tests := []struct {
		name      string
		setup     model.SetupState
		trend     *model.TrendState
		threshold int
		want      model.Category
		chart     bool
	}{
		{"buy on downtrend", model.SetupState{BuyCount: 5}, down, 4, model.CategoryBuy, true},
		{"strong buy above threshold", model.SetupState{BuyCount: 12}, up, 9, model.CategoryStrongBuy, true},
		{"sell regardless of trend", model.SetupState{SellCount: 9}, up, 9, model.CategorySell, true},
		{"sell on downtrend", model.SetupState{SellCount: 4}, down, 4, model.CategorySell, true},
		{"below threshold", model.SetupState{BuyCount: 3, SellCount: 3}, up, 9, model.CategoryNone, false},
		{"one short", model.SetupState{BuyCount: 8}, up, 9, model.CategoryNone, false},
		{"no trend falls back to buy", model.SetupState{BuyCount: 9}, nil, 9, model.CategoryBuy, true},
		{"no trend sell", model.SetupState{SellCount: 9}, nil, 9, model.CategorySell, true},
		{"threshold clamped to one", model.SetupState{SellCount: 1}, nil, 0, model.CategorySell, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, chart := Classify(tt.setup, tt.trend, tt.threshold)
			assert.Equal(t, tt.want, cat)
			assert.Equal(t, tt.chart, chart)
		})
	}
}

func TestEvaluate_EmptySeries(t *testing.T) {
	_, err := Evaluate(model.Instrument{Symbol: "X"}, nil, Params{SetupWindow: 15, Threshold: 9})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestEvaluate_MA60FallbackSkipsStrongBuy(t *testing.T) {
	// 30 bars leave MA60 undefined on the last frame.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 300 - float64(i)
	}
	frames := framesFromCloses(closes)
	inst := model.Instrument{Symbol: "^KS11", Name: "KOSPI", Currency: model.KRW}

	d, err := Evaluate(inst, frames, Params{SetupWindow: 15, Threshold: 9, TrendBoundary: model.BoundaryMA60})
	require.NoError(t, err)
	assert.Nil(t, d.Trend)
	assert.Equal(t, model.CategoryBuy, d.Category)
	assert.True(t, d.ChartRequested)
	assert.Equal(t, model.SetupState{BuyCount: 15}, d.Setup)
	assert.Equal(t, 9, d.ThresholdUsed)
	assert.Equal(t, 271.0, d.Price)
	assert.Equal(t, 272.0, d.PrevClose)
	assert.Equal(t, model.KRW, d.Instrument.Currency)
}

func TestEvaluate_StrongBuyWhenAboveBoundary(t *testing.T) {
	// A steady rise keeps EMA20 far below price; four closes just under
	// their 4-bar lag start a buy streak without breaking the uptrend.
	closes := make([]float64, 0, 80)
	for i := 0; i < 70; i++ {
		closes = append(closes, 100+float64(i)*2)
	}
	for i := 0; i < 4; i++ {
		closes = append(closes, closes[len(closes)-4]-1)
	}
	frames := framesFromCloses(closes)
	last := frames[len(frames)-1]
	require.Greater(t, last.Close, last.EMA20)

	d, err := Evaluate(model.Instrument{Symbol: "AAPL"}, frames, Params{SetupWindow: 15, Threshold: 4, TrendBoundary: model.BoundaryEMA20})
	require.NoError(t, err)
	assert.Equal(t, model.SetupState{BuyCount: 4}, d.Setup)
	require.NotNil(t, d.Trend)
	assert.Equal(t, model.Uptrend, d.Trend.Direction)
	assert.Equal(t, model.CategoryStrongBuy, d.Category)
}

func TestEvaluate_NoneForFlatSeries(t *testing.T) {
	closes := make([]float64, 70)
	for i := range closes {
		closes[i] = 10
	}
	d, err := Evaluate(model.Instrument{Symbol: "SPY"}, framesFromCloses(closes), Params{SetupWindow: 15, Threshold: 9, TrendBoundary: model.BoundaryMA60})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryNone, d.Category)
	assert.False(t, d.ChartRequested)
	assert.False(t, d.Notify())
	require.NotNil(t, d.Trend)
	assert.Equal(t, model.Downtrend, d.Trend.Direction)
	assert.Equal(t, model.Bearish, d.Trend.MACDBias)
}
