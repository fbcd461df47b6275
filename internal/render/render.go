package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"SetupSentinel/internal/model"
)

// ErrTooFewBars is returned when fewer than two bars are available to plot.
var ErrTooFewBars = errors.New("not enough bars to render")

// ChartRenderer draws a price panel (close, EMA20, MA60) above a MACD panel
// and returns the stacked image as PNG.
type ChartRenderer struct {
	Lookback int
	Width    int
	Height   int
}

// NewChartRenderer creates a renderer for the last `lookback` bars.
func NewChartRenderer(lookback, width, height int) *ChartRenderer {
	return &ChartRenderer{Lookback: lookback, Width: width, Height: height}
}

// Render plots the tail of the series with its indicator frames.
func (r *ChartRenderer) Render(series model.PriceSeries, frames []model.IndicatorFrame) ([]byte, error) {
	n := len(frames)
	if len(series.Bars) < n {
		n = len(series.Bars)
	}
	start := n - r.Lookback
	if start < 0 {
		start = 0
	}
	bars := series.Bars[len(series.Bars)-n+start:]
	frames = frames[len(frames)-n+start:]
	if len(frames) < 2 {
		return nil, ErrTooFewBars
	}

	priceHeight := r.Height * 2 / 3
	top, err := r.pricePanel(series.Instrument, bars, frames, priceHeight)
	if err != nil {
		return nil, fmt.Errorf("price panel: %w", err)
	}
	bottom, err := r.macdPanel(frames, r.Height-priceHeight)
	if err != nil {
		return nil, fmt.Errorf("macd panel: %w", err)
	}
	return stack(top, bottom)
}

func (r *ChartRenderer) pricePanel(inst model.Instrument, bars []model.PriceBar, frames []model.IndicatorFrame, height int) (image.Image, error) {
	dates := make([]time.Time, len(frames))
	closes := make([]float64, len(frames))
	ema := make([]float64, len(frames))
	var maDates []time.Time
	var ma []float64
	for i, f := range frames {
		dates[i] = bars[i].Date
		closes[i] = bars[i].Close
		ema[i] = f.EMA20
		if f.MA60 != nil {
			maDates = append(maDates, bars[i].Date)
			ma = append(ma, *f.MA60)
		}
	}

	series := []chart.Series{
		chart.TimeSeries{Name: "Close", XValues: dates, YValues: closes,
			Style: chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 1.5}},
		chart.TimeSeries{Name: "EMA20", XValues: dates, YValues: ema,
			Style: chart.Style{StrokeColor: chart.ColorOrange, StrokeWidth: 1}},
	}
	all := append(append([]float64{}, closes...), ema...)
	if len(ma) >= 2 {
		series = append(series, chart.TimeSeries{Name: "MA60", XValues: maDates, YValues: ma,
			Style: chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1}})
		all = append(all, ma...)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s (%s)", inst.Name, inst.Symbol),
		Width:  r.Width,
		Height: height,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:  chart.YAxis{Range: paddedRange(all)},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return renderPNG(graph)
}

func (r *ChartRenderer) macdPanel(frames []model.IndicatorFrame, height int) (image.Image, error) {
	dates := make([]time.Time, len(frames))
	line := make([]float64, len(frames))
	signal := make([]float64, len(frames))
	hist := make([]float64, len(frames))
	for i, f := range frames {
		dates[i] = f.Date
		line[i] = f.MACD
		signal[i] = f.SignalLine
		hist[i] = f.MACDHist
	}

	all := append(append(append([]float64{}, line...), signal...), hist...)
	graph := chart.Chart{
		Width:  r.Width,
		Height: height,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:  chart.YAxis{Range: paddedRange(all)},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Hist", XValues: dates, YValues: hist,
				Style: chart.Style{StrokeColor: chart.ColorLightGray, FillColor: chart.ColorLightGray}},
			chart.TimeSeries{Name: "MACD", XValues: dates, YValues: line,
				Style: chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1}},
			chart.TimeSeries{Name: "Signal", XValues: dates, YValues: signal,
				Style: chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 1}},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return renderPNG(graph)
}

// paddedRange fixes the y range so flat series do not produce a zero-height axis.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.01, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func renderPNG(graph chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func stack(top, bottom image.Image) ([]byte, error) {
	tb, bb := top.Bounds(), bottom.Bounds()
	width := tb.Dx()
	if bb.Dx() > width {
		width = bb.Dx()
	}
	canvas := image.NewRGBA(image.Rect(0, 0, width, tb.Dy()+bb.Dy()))
	draw.Draw(canvas, image.Rect(0, 0, tb.Dx(), tb.Dy()), top, tb.Min, draw.Src)
	draw.Draw(canvas, image.Rect(0, tb.Dy(), bb.Dx(), tb.Dy()+bb.Dy()), bottom, bb.Min, draw.Src)

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
