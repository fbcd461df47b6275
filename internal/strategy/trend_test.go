package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SetupSentinel/internal/model"
)

func TestClassifyTrend_EMA20(t *testing.T) {
	ts, ok := ClassifyTrend(model.IndicatorFrame{Close: 105, EMA20: 100, MACDHist: 0.3}, model.BoundaryEMA20)
	require.True(t, ok)
	assert.Equal(t, model.Uptrend, ts.Direction)
	assert.Equal(t, model.Bullish, ts.MACDBias)
	assert.Equal(t, model.BoundaryEMA20, ts.Boundary)

	ts, ok = ClassifyTrend(model.IndicatorFrame{Close: 100, EMA20: 100, MACDHist: 0}, model.BoundaryEMA20)
	require.True(t, ok)
	assert.Equal(t, model.Downtrend, ts.Direction)
	assert.Equal(t, model.Bearish, ts.MACDBias)
}

func TestClassifyTrend_MA60(t *testing.T) {
	ma := 110.0
	ts, ok := ClassifyTrend(model.IndicatorFrame{Close: 105, EMA20: 100, MA60: &ma, MACDHist: -1}, model.BoundaryMA60)
	require.True(t, ok)
	// above EMA20 but below MA60
	assert.Equal(t, model.Downtrend, ts.Direction)
	assert.Equal(t, model.BoundaryMA60, ts.Boundary)
}

func TestClassifyTrend_MA60Undefined(t *testing.T) {
	_, ok := ClassifyTrend(model.IndicatorFrame{Close: 105, EMA20: 100}, model.BoundaryMA60)
	assert.False(t, ok)
}

func TestClassifyTrend_UnknownBoundaryUsesEMA20(t *testing.T) {
	ts, ok := ClassifyTrend(model.IndicatorFrame{Close: 105, EMA20: 100}, "")
	require.True(t, ok)
	assert.Equal(t, model.BoundaryEMA20, ts.Boundary)
	assert.Equal(t, model.Uptrend, ts.Direction)
}
