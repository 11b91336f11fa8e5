// Package pricing resolves a representative XRP/JPY price for a calendar day.
//
// Two strategies exist. RangeResolver reads the provider's intraday series
// for the UTC day and takes the element at index len/2. SnapshotResolver asks
// for the provider's daily snapshot, addressing the day by its calendar date
// in a configured location. The two can disagree about which day a given
// instant belongs to; see ParseLooseDate.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/xrp-tax-service/internal/apperr"
	"github.com/Dan9191/xrp-tax-service/internal/integrations/coingecko"
	"github.com/Dan9191/xrp-tax-service/internal/models"
)

// CacheTTL is how long a resolved day's price may be cached downstream.
const CacheTTL = 24 * time.Hour

// Quote is the representative price of one day. Strategy is
// config.StrategyRange or config.StrategySnapshot.
type Quote struct {
	Date     string
	Price    float64
	Strategy string
	// At is the timestamp of the chosen series point; zero for snapshots.
	At time.Time
}

// Resolver maps a date string to a Quote.
type Resolver interface {
	Resolve(ctx context.Context, date string) (Quote, error)
}

// RangeSource is the ranged time-series endpoint.
type RangeSource interface {
	MarketChartRange(ctx context.Context, coin, vs string, from, to int64) ([]models.PricePoint, error)
}

// HistorySource is the single-day snapshot endpoint.
type HistorySource interface {
	History(ctx context.Context, coin, date string) (*coingecko.HistoryResponse, error)
}

// classify turns a provider failure into the shared error taxonomy.
func classify(err error) error {
	var apiErr *coingecko.APIError
	if errors.As(err, &apiErr) {
		return apperr.Upstream(apiErr.StatusCode, err)
	}
	return apperr.Internal("price provider request failed", err)
}
