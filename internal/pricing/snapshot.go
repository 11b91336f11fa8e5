package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/xrp-tax-service/internal/apperr"
	"github.com/Dan9191/xrp-tax-service/internal/config"
	"github.com/sirupsen/logrus"
)

// snapshotLayout is D-M-YYYY without leading zeros.
const snapshotLayout = "2-1-2006"

// Date-only ISO strings are instants at UTC midnight.
var utcLayouts = []string{
	"2006-01-02",
}

// Layouts that carry their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
}

// Layouts without a zone are read in the snapshot location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
}

// ParseLooseDate accepts the common ways a browser or user writes a date.
// A bare YYYY-MM-DD is midnight UTC, while a date-time without an offset is
// read in loc. The calendar day is then taken in loc, so a bare date can land
// on the previous day in zones west of UTC. RangeResolver has no such shift.
func ParseLooseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range utcLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatSnapshotDate renders the calendar day of t in loc as D-M-YYYY.
func FormatSnapshotDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(snapshotLayout)
}

// ParseSnapshotDate is the inverse of FormatSnapshotDate: midnight of the
// day in loc.
func ParseSnapshotDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(snapshotLayout, s, loc)
}

// SnapshotResolver resolves dates through the daily history endpoint.
type SnapshotResolver struct {
	source HistorySource
	coin   string
	vs     string
	loc    *time.Location
	log    *logrus.Logger
}

// NewSnapshotResolver returns a SnapshotResolver. loc decides which calendar
// day an instant belongs to; nil means time.Local.
func NewSnapshotResolver(source HistorySource, coin, vs string, loc *time.Location, log *logrus.Logger) *SnapshotResolver {
	if loc == nil {
		loc = time.Local
	}
	return &SnapshotResolver{source: source, coin: coin, vs: vs, loc: loc, log: log}
}

// Resolve implements Resolver.
func (r *SnapshotResolver) Resolve(ctx context.Context, date string) (Quote, error) {
	if strings.TrimSpace(date) == "" {
		return Quote{}, apperr.InvalidArgument("date is required")
	}
	t, err := ParseLooseDate(date, r.loc)
	if err != nil {
		return Quote{}, apperr.InvalidArgument("%v", err)
	}
	day := FormatSnapshotDate(t, r.loc)

	history, err := r.source.History(ctx, r.coin, day)
	if err != nil {
		return Quote{}, classify(err)
	}

	// A zero price is treated like a missing one.
	price, ok := history.CurrentPrice(r.vs)
	if !ok || price == 0 {
		return Quote{}, apperr.NotFound("no %s snapshot price for %s", r.vs, day)
	}

	r.log.WithFields(logrus.Fields{
		"date":     date,
		"snapshot": day,
		"price":    price,
	}).Debug("Resolved price from snapshot")

	return Quote{
		Date:     day,
		Price:    price,
		Strategy: config.StrategySnapshot,
	}, nil
}
