package coingecko

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/xrp-tax-service/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewClient(&config.Config{
		CoinGeckoURL:    server.URL,
		CoinGeckoAPIKey: apiKey,
		HTTPTimeout:     2 * time.Second,
	}, log)
}

func TestMarketChartRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/ripple/market_chart/range", r.URL.Path)
		assert.Equal(t, "jpy", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "1704067200", r.URL.Query().Get("from"))
		assert.Equal(t, "1704153599", r.URL.Query().Get("to"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("x-cg-demo-api-key"))
		fmt.Fprintln(w, `{"prices":[[1704067200000,88.1],[1704070800000,88.4]],"market_caps":[],"total_volumes":[]}`)
	}, "")

	points, err := client.MarketChartRange(context.Background(), "ripple", "jpy", 1704067200, 1704153599)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Timestamp)
	assert.Equal(t, 88.4, points[1].Price)
}

func TestMarketChartRange_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short tuple", `{"prices":[[1704067200000]]}`},
		{"non numeric", `{"prices":[[1704067200000,"abc"]]}`},
		{"null price", `{"prices":[[1704067200000,80],[1704070800000,null],[1704074400000,82]]}`},
		{"null timestamp", `{"prices":[[null,80]]}`},
		{"invalid json", `{]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, tt.body)
			}, "")

			_, err := client.MarketChartRange(context.Background(), "ripple", "jpy", 0, 1)
			require.Error(t, err)
			var apiErr *APIError
			assert.False(t, errors.As(err, &apiErr))
		})
	}
}

func TestMarketChartRange_EmptyPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"prices":[]}`)
	}, "")

	points, err := client.MarketChartRange(context.Background(), "ripple", "jpy", 0, 1)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/ripple/history", r.URL.Path)
		assert.Equal(t, "5-3-2024", r.URL.Query().Get("date"))
		assert.Equal(t, "false", r.URL.Query().Get("localization"))
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		fmt.Fprintln(w, `{"id":"ripple","symbol":"xrp","market_data":{"current_price":{"jpy":91.25,"usd":"n/a"}}}`)
	}, "demo-key")

	history, err := client.History(context.Background(), "ripple", "5-3-2024")
	require.NoError(t, err)

	price, ok := history.CurrentPrice("jpy")
	assert.True(t, ok)
	assert.Equal(t, 91.25, price)

	_, ok = history.CurrentPrice("usd")
	assert.False(t, ok, "non-numeric price must not be reported")

	_, ok = history.CurrentPrice("eur")
	assert.False(t, ok)
}

func TestHistory_NoMarketData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"id":"ripple","symbol":"xrp"}`)
	}, "")

	history, err := client.History(context.Background(), "ripple", "1-1-2010")
	require.NoError(t, err)

	_, ok := history.CurrentPrice("jpy")
	assert.False(t, ok)
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprintln(w, `{"status":{"error_code":429,"error_message":"rate limited"}}`)
	}, "")

	_, err := client.History(context.Background(), "ripple", "1-1-2024")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, string(apiErr.Body), "rate limited")
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintln(w, `{"gecko_says":"(V3) To the Moon!"}`)
	}, "")

	assert.NoError(t, client.Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	client := NewClient(&config.Config{
		CoinGeckoURL: "http://127.0.0.1:1",
		HTTPTimeout:  time.Second,
	}, log)

	err := client.Ping(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
