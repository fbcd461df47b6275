package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yahooFixture = `{"chart":{"result":[{
  "meta":{"exchangeTimezoneName":"Asia/Seoul"},
  "timestamp":[1704240000,1704326400,1704412800,1704672000],
  "indicators":{"quote":[{
    "open":[2600.5,2590.0,null,2580.0],
    "high":[2610.0,2600.0,null,2590.0],
    "low":[2590.0,2580.0,null,2570.0],
    "close":[2607.3,2587.0,null,2578.1],
    "volume":[500000,600000,null,700000]
  }]}
}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "KOSPI", 100)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/%5EKS11", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "range=6mo")

	require.Len(t, bars, 3, "null bar skipped")
	assert.Equal(t, 2607.3, bars[0].Close)
	assert.Equal(t, int64(700000), bars[2].Volume)
	assert.True(t, bars[0].Date.Before(bars[1].Date))
	assert.Equal(t, "Asia/Seoul", bars[0].Date.Location().String())
}

func TestYahooFetcher_TrimsToRequested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "^KS11", 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 2578.1, bars[1].Close)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "NOPE", 60)
	assert.ErrorContains(t, err, "delisted")
}

func TestYahooFetcher_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "AAPL", 60)
	assert.ErrorContains(t, err, "status 429")
}

func TestYahooFetcher_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", 60)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestRangeFor(t *testing.T) {
	assert.Equal(t, "1mo", rangeFor(15))
	assert.Equal(t, "3mo", rangeFor(60))
	assert.Equal(t, "6mo", rangeFor(120))
	assert.Equal(t, "1y", rangeFor(200))
	assert.Equal(t, "2y", rangeFor(400))
}
