package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SetupSentinel/internal/calculator"
	"SetupSentinel/internal/model"
)

func series(closes []float64) model.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return model.PriceSeries{Instrument: model.Instrument{Symbol: "^KS11", Name: "KOSPI"}, Bars: bars}
}

func TestRender_StackedPNG(t *testing.T) {
	closes := make([]float64, 90)
	for i := range closes {
		closes[i] = 2500 + float64(i%7)*10 - float64(i)
	}
	s := series(closes)
	r := NewChartRenderer(60, 800, 600)

	img, err := r.Render(s, calculator.Compute(s.Bars))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 800, decoded.Bounds().Dx())
	assert.Equal(t, 600, decoded.Bounds().Dy())
}

func TestRender_FlatShortSeries(t *testing.T) {
	s := series([]float64{100, 100, 100, 100, 100})
	img, err := NewChartRenderer(60, 400, 300).Render(s, calculator.Compute(s.Bars))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestRender_TooFewBars(t *testing.T) {
	s := series([]float64{100})
	_, err := NewChartRenderer(60, 400, 300).Render(s, calculator.Compute(s.Bars))
	assert.ErrorIs(t, err, ErrTooFewBars)
}

func TestPaddedRange(t *testing.T) {
	r := paddedRange([]float64{10, 10})
	assert.Less(t, r.Min, 10.0)
	assert.Greater(t, r.Max, 10.0)

	r = paddedRange([]float64{0, 100})
	assert.InDelta(t, -5, r.Min, 1e-9)
	assert.InDelta(t, 105, r.Max, 1e-9)
}
