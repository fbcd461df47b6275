package collector

import (
	"context"
	"fmt"
	"time"

	"SetupSentinel/internal/calculator"
	"SetupSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Bars   map[string][]model.PriceBar
	Errors map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, bars int) ([]model.PriceBar, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if data, ok := m.Bars[symbol]; ok {
		return data, nil
	}
	return generateMockBars(m.Price, bars), nil
}

func generateMockBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Snapshot is the fetched series of one instrument with its indicator frames.
type Snapshot struct {
	Series model.PriceSeries
	Frames []model.IndicatorFrame
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher      Fetcher
	LookbackBars int
	Timeout      time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lookbackBars int, timeout time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, LookbackBars: lookbackBars, Timeout: timeout}
}

// Collect fetches the daily series of inst and computes its indicator frames.
// Fetch failures and empty series are reported as ErrDataUnavailable.
func (c *Collector) Collect(ctx context.Context, inst model.Instrument) (*Snapshot, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	bars, err := c.Fetcher.FetchDailyBars(ctx, inst.Symbol, c.LookbackBars)
	if err != nil {
		return nil, fmt.Errorf("%w: %s via %s: %w", ErrDataUnavailable, inst.Symbol, c.Fetcher.Name(), err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s via %s: empty series", ErrDataUnavailable, inst.Symbol, c.Fetcher.Name())
	}

	return &Snapshot{
		Series: model.PriceSeries{Instrument: inst, Bars: bars, FetchedAt: time.Now()},
		Frames: calculator.Compute(bars),
	}, nil
}
