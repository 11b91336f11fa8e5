package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/xrp-tax-service/internal/config"
	"github.com/Dan9191/xrp-tax-service/internal/models"
	"github.com/Dan9191/xrp-tax-service/internal/pricing"
	"github.com/Dan9191/xrp-tax-service/internal/tax"
	"github.com/Dan9191/xrp-tax-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	engine   *tax.Engine
	ranged   pricing.Resolver
	snapshot pricing.Resolver
	form     pricing.Resolver
	log      *logrus.Logger
}

// NewService initializes a new service. formStrategy selects which resolver
// seeds the sale price for estimates ("range" or "snapshot").
func NewService(engine *tax.Engine, ranged, snapshot pricing.Resolver, formStrategy string, log *logrus.Logger) (*Service, error) {
	s := &Service{engine: engine, ranged: ranged, snapshot: snapshot, log: log}
	switch formStrategy {
	case config.StrategyRange:
		s.form = ranged
	case config.StrategySnapshot:
		s.form = snapshot
	default:
		return nil, fmt.Errorf("unknown price strategy %q", formStrategy)
	}
	return s, nil
}

// PriceForDate resolves a YYYY-MM-DD date from the intraday series
func (s *Service) PriceForDate(ctx context.Context, date string) (pricing.Quote, error) {
	return s.resolve(ctx, s.ranged, date)
}

// SnapshotForDate resolves a loosely formatted date from the daily snapshot
func (s *Service) SnapshotForDate(ctx context.Context, date string) (pricing.Quote, error) {
	return s.resolve(ctx, s.snapshot, date)
}

// FormPrice resolves a date with the strategy configured for the form
func (s *Service) FormPrice(ctx context.Context, date string) (pricing.Quote, error) {
	return s.resolve(ctx, s.form, date)
}

func (s *Service) resolve(ctx context.Context, r pricing.Resolver, date string) (pricing.Quote, error) {
	q, err := r.Resolve(ctx, date)
	if err != nil {
		s.log.WithError(err).WithField("date", date).Warn("Price resolution failed")
		return pricing.Quote{}, err
	}
	s.log.WithFields(logrus.Fields{
		"date":     q.Date,
		"strategy": q.Strategy,
		"price":    q.Price,
	}).Info("Resolved price")
	return q, nil
}

// Estimate computes the after-tax proceeds for in. When no sale price is
// given but a date is, the sale price is resolved first.
func (s *Service) Estimate(ctx context.Context, in models.EstimateInput) (*models.EstimateResult, error) {
	resolved := false
	if in.SellPrice == 0 && in.Date != "" {
		q, err := s.FormPrice(ctx, in.Date)
		if err != nil {
			return nil, err
		}
		in.SellPrice = q.Price
		resolved = true
	}

	res := s.Calculate(in)
	res.PriceResolved = resolved
	return res, nil
}

// Calculate runs the tax engine on in as given, without resolving a price.
func (s *Service) Calculate(in models.EstimateInput) *models.EstimateResult {
	b := s.engine.Estimate(in)
	return &models.EstimateResult{
		SellPrice:      in.SellPrice,
		Profit:         b.Profit,
		TaxBefore:      b.TaxBefore,
		TaxAfter:       b.TaxAfter,
		TaxIncrease:    b.TaxIncrease,
		NetProfit:      b.NetProfit,
		MarginalRate:   s.engine.MarginalRate(in.Income + b.Profit),
		ProfitYen:      utils.RoundYen(b.Profit),
		TaxIncreaseYen: utils.RoundYen(b.TaxIncrease),
		NetProfitYen:   utils.RoundYen(b.NetProfit),
	}
}
