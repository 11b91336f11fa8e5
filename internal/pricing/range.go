package pricing

import (
	"context"
	"strings"
	"time"

	"github.com/Dan9191/xrp-tax-service/internal/apperr"
	"github.com/Dan9191/xrp-tax-service/internal/config"
	"github.com/Dan9191/xrp-tax-service/internal/models"
	"github.com/sirupsen/logrus"
)

// RangeResolver resolves YYYY-MM-DD dates from the UTC intraday series.
type RangeResolver struct {
	source RangeSource
	coin   string
	vs     string
	log    *logrus.Logger
}

// NewRangeResolver returns a RangeResolver for coin priced in vs.
func NewRangeResolver(source RangeSource, coin, vs string, log *logrus.Logger) *RangeResolver {
	return &RangeResolver{source: source, coin: coin, vs: vs, log: log}
}

// DayBounds returns the first and last second of the UTC day as Unix seconds.
func DayBounds(day time.Time) (from, to int64) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	return start.Unix(), end.Unix()
}

// RepresentativeIndex is the positional middle of a series of length n.
// For even n this is the upper of the two middle elements; nothing is
// averaged.
func RepresentativeIndex(n int) int {
	return n / 2
}

// Representative picks the representative point of a day's series.
func Representative(series []models.PricePoint) (models.PricePoint, bool) {
	if len(series) == 0 {
		return models.PricePoint{}, false
	}
	return series[RepresentativeIndex(len(series))], true
}

// Resolve implements Resolver.
func (r *RangeResolver) Resolve(ctx context.Context, date string) (Quote, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return Quote{}, apperr.InvalidArgument("date is required")
	}
	day, err := time.ParseInLocation("2006-1-2", date, time.UTC)
	if err != nil {
		return Quote{}, apperr.InvalidArgument("date %q must be YYYY-MM-DD", date)
	}

	from, to := DayBounds(day)
	series, err := r.source.MarketChartRange(ctx, r.coin, r.vs, from, to)
	if err != nil {
		return Quote{}, classify(err)
	}

	// A non-positive price is treated like a missing one.
	point, ok := Representative(series)
	if !ok || point.Price <= 0 {
		return Quote{}, apperr.NotFound("no %s price for %s", r.vs, date)
	}

	r.log.WithFields(logrus.Fields{
		"date":   date,
		"points": len(series),
		"price":  point.Price,
	}).Debug("Resolved price from range")

	return Quote{
		Date:     date,
		Price:    point.Price,
		Strategy: config.StrategyRange,
		At:       point.Timestamp,
	}, nil
}
