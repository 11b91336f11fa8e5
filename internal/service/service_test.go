package service

import (
	"context"
	"io"
	"testing"

	"github.com/Dan9191/xrp-tax-service/internal/apperr"
	"github.com/Dan9191/xrp-tax-service/internal/config"
	"github.com/Dan9191/xrp-tax-service/internal/models"
	"github.com/Dan9191/xrp-tax-service/internal/pricing"
	"github.com/Dan9191/xrp-tax-service/internal/tax"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockResolver is a mock type for pricing.Resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, date string) (pricing.Quote, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(pricing.Quote), args.Error(1)
}

func newTestService(t *testing.T, strategy string) (*Service, *MockResolver, *MockResolver) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	ranged, snapshot := new(MockResolver), new(MockResolver)
	svc, err := NewService(tax.Default(), ranged, snapshot, strategy, log)
	require.NoError(t, err)
	return svc, ranged, snapshot
}

func TestNewService_UnknownStrategy(t *testing.T) {
	_, err := NewService(tax.Default(), new(MockResolver), new(MockResolver), "average", logrus.New())
	assert.Error(t, err)
}

func TestEstimate_WithSellPrice(t *testing.T) {
	svc, ranged, snapshot := newTestService(t, config.StrategySnapshot)

	res, err := svc.Estimate(context.Background(), models.EstimateInput{
		Income:    5_000_000,
		Amount:    10_000,
		BuyPrice:  50,
		SellPrice: 150,
		Date:      "2024-01-01",
	})
	require.NoError(t, err)

	assert.False(t, res.PriceResolved)
	assert.Equal(t, int64(1_000_000), res.ProfitYen)
	assert.Equal(t, int64(300_000), res.TaxIncreaseYen)
	assert.Equal(t, int64(700_000), res.NetProfitYen)
	assert.InDelta(t, tax.ComputeTax(6_000_000)-tax.ComputeTax(5_000_000), res.TaxIncrease, 0.01)
	assert.InDelta(t, 0.30, res.MarginalRate, 1e-9)
	ranged.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	snapshot.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestEstimate_ResolvesSellPrice(t *testing.T) {
	svc, ranged, snapshot := newTestService(t, config.StrategyRange)
	ranged.On("Resolve", mock.Anything, "2024-01-01").
		Return(pricing.Quote{Date: "2024-01-01", Price: 150, Strategy: config.StrategyRange}, nil)

	res, err := svc.Estimate(context.Background(), models.EstimateInput{
		Income:   5_000_000,
		Amount:   10_000,
		BuyPrice: 50,
		Date:     "2024-01-01",
	})
	require.NoError(t, err)

	assert.True(t, res.PriceResolved)
	assert.Equal(t, 150.0, res.SellPrice)
	assert.Equal(t, int64(700_000), res.NetProfitYen)
	ranged.AssertExpectations(t)
	snapshot.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestEstimate_ResolutionError(t *testing.T) {
	svc, _, snapshot := newTestService(t, config.StrategySnapshot)
	snapshot.On("Resolve", mock.Anything, "2010-01-01").
		Return(pricing.Quote{}, apperr.NotFound("no price"))

	_, err := svc.Estimate(context.Background(), models.EstimateInput{Amount: 1, Date: "2010-01-01"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestEstimate_NoDateNoPrice(t *testing.T) {
	svc, _, _ := newTestService(t, config.StrategySnapshot)

	res, err := svc.Estimate(context.Background(), models.EstimateInput{Income: 5_000_000, Amount: 100, BuyPrice: 80})
	require.NoError(t, err)

	// Selling at 0 is a realized loss of the full cost basis.
	assert.Equal(t, int64(-8_000), res.ProfitYen)
	assert.Less(t, res.TaxIncrease, 0.0)
}

func TestPriceForDate_DelegatesToRange(t *testing.T) {
	svc, ranged, snapshot := newTestService(t, config.StrategySnapshot)
	ranged.On("Resolve", mock.Anything, "2024-01-01").Return(pricing.Quote{Price: 82}, nil)
	snapshot.On("Resolve", mock.Anything, "2024-01-01").Return(pricing.Quote{Price: 90}, nil)

	q, err := svc.PriceForDate(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 82.0, q.Price)

	q, err = svc.SnapshotForDate(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 90.0, q.Price)

	q, err = svc.FormPrice(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 90.0, q.Price)
}
