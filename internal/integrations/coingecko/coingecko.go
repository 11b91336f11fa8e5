package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/xrp-tax-service/internal/config"
	"github.com/Dan9191/xrp-tax-service/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// APIError is returned when CoinGecko answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coingecko api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client handles requests to the CoinGecko public API
type Client struct {
	client *resty.Client
	log    *logrus.Logger
}

// NewClient initializes a new CoinGecko client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.CoinGeckoURL)
	client.SetTimeout(cfg.HTTPTimeout)
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")
	if cfg.CoinGeckoAPIKey != "" {
		client.SetHeader("x-cg-demo-api-key", cfg.CoinGeckoAPIKey)
	}

	return &Client{
		client: client,
		log:    log,
	}
}

// marketChartResponse is the body of /coins/{id}/market_chart/range.
// Each price entry is [timestamp_ms, price]; either may come back null.
type marketChartResponse struct {
	Prices [][]*float64 `json:"prices"`
}

// HistoryResponse is the subset of /coins/{id}/history this service reads.
// CurrentPrice values are kept raw so a non-numeric value can be told apart
// from a missing one.
type HistoryResponse struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	MarketData *struct {
		CurrentPrice map[string]json.RawMessage `json:"current_price"`
	} `json:"market_data"`
}

// CurrentPrice returns the snapshot price in currency vs. ok is false when
// the field is missing or not a number.
func (h *HistoryResponse) CurrentPrice(vs string) (float64, bool) {
	if h == nil || h.MarketData == nil {
		return 0, false
	}
	raw, exists := h.MarketData.CurrentPrice[vs]
	if !exists {
		return 0, false
	}
	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, false
	}
	return price, true
}

// get performs a GET and returns the body of a 2xx response
func (c *Client) get(ctx context.Context, path string, pathParams, query map[string]string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(pathParams).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"url":         resp.Request.URL,
		"status":      resp.StatusCode(),
		"duration_ms": resp.Time().Milliseconds(),
	}).Debug("CoinGecko response")

	if !resp.IsSuccess() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.Body()}
	}
	return resp.Body(), nil
}

// MarketChartRange fetches the price series for coin in vs between from and
// to, both Unix seconds.
func (c *Client) MarketChartRange(ctx context.Context, coin, vs string, from, to int64) ([]models.PricePoint, error) {
	body, err := c.get(ctx, "/coins/{id}/market_chart/range",
		map[string]string{"id": coin},
		map[string]string{
			"vs_currency": vs,
			"from":        strconv.FormatInt(from, 10),
			"to":          strconv.FormatInt(to, 10),
		})
	if err != nil {
		return nil, err
	}

	var chart marketChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode market chart: %w", err)
	}

	points := make([]models.PricePoint, 0, len(chart.Prices))
	for i, p := range chart.Prices {
		if len(p) < 2 || p[0] == nil || p[1] == nil {
			return nil, fmt.Errorf("malformed price entry %d: want [timestamp, price]", i)
		}
		points = append(points, models.PricePoint{
			Timestamp: time.UnixMilli(int64(*p[0])).UTC(),
			Price:     *p[1],
		})
	}
	return points, nil
}

// History fetches the daily snapshot for coin. date is D-M-YYYY.
func (c *Client) History(ctx context.Context, coin, date string) (*HistoryResponse, error) {
	body, err := c.get(ctx, "/coins/{id}/history",
		map[string]string{"id": coin},
		map[string]string{
			"date":         date,
			"localization": "false",
		})
	if err != nil {
		return nil, err
	}

	var history HistoryResponse
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return &history, nil
}

// Ping checks that the API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/ping", nil, nil)
	return err
}
