// Package tax computes Japanese income tax plus resident tax on a total
// income, and the incremental burden of adding a trading profit to it.
package tax

import (
	"fmt"
	"math"

	"github.com/Dan9191/xrp-tax-service/internal/models"
)

// ResidentTaxRate is the flat local tax applied on top of every bracket.
const ResidentTaxRate = 0.10

// Bracket is one row of the progressive national income tax table.
// Deduction is chosen so that income*Rate - Deduction is continuous at the
// lower boundary.
type Bracket struct {
	UpperBound float64
	Rate       float64
	Deduction  float64
}

// Table is ordered ascending by UpperBound; the last bound is +Inf.
type Table []Bracket

// JapanIncomeTax is the national income tax quick-calculation table.
var JapanIncomeTax = Table{
	{UpperBound: 1_950_000, Rate: 0.05, Deduction: 0},
	{UpperBound: 3_300_000, Rate: 0.10, Deduction: 97_500},
	{UpperBound: 6_950_000, Rate: 0.20, Deduction: 427_500},
	{UpperBound: 9_000_000, Rate: 0.23, Deduction: 636_000},
	{UpperBound: 18_000_000, Rate: 0.33, Deduction: 1_536_000},
	{UpperBound: 40_000_000, Rate: 0.40, Deduction: 2_796_000},
	{UpperBound: math.Inf(1), Rate: 0.45, Deduction: 4_796_000},
}

// Validate checks ordering, the unbounded catch-all and continuity at every
// boundary.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tax table is empty")
	}
	for i, b := range t {
		if b.Rate < 0 || b.Rate > 1 {
			return fmt.Errorf("bracket %d: rate %v out of range", i, b.Rate)
		}
		if i == 0 {
			if b.UpperBound <= 0 {
				return fmt.Errorf("bracket 0: upper bound must be positive, got %v", b.UpperBound)
			}
			continue
		}
		prev := t[i-1]
		if b.UpperBound <= prev.UpperBound {
			return fmt.Errorf("bracket %d: upper bound %v not above %v", i, b.UpperBound, prev.UpperBound)
		}
		edge := prev.UpperBound
		below := edge*prev.Rate - prev.Deduction
		above := edge*b.Rate - b.Deduction
		if math.Abs(below-above) > 1e-6*math.Max(1, math.Abs(below)) {
			return fmt.Errorf("bracket %d: discontinuous at %v (%v vs %v)", i, edge, below, above)
		}
	}
	if !math.IsInf(t[len(t)-1].UpperBound, 1) {
		return fmt.Errorf("last bracket must be unbounded")
	}
	return nil
}

// lookup returns the first bracket whose bound covers income.
func (t Table) lookup(income float64) (Bracket, bool) {
	for _, b := range t {
		if income <= b.UpperBound {
			return b, true
		}
	}
	return Bracket{}, false
}

// Engine applies a bracket table and a flat local rate.
type Engine struct {
	table     Table
	localRate float64
}

// NewEngine validates table and returns an engine over it.
func NewEngine(table Table, localRate float64) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if localRate < 0 || localRate > 1 {
		return nil, fmt.Errorf("local rate %v out of range", localRate)
	}
	return &Engine{table: table, localRate: localRate}, nil
}

var defaultEngine = mustEngine(JapanIncomeTax, ResidentTaxRate)

func mustEngine(table Table, localRate float64) *Engine {
	e, err := NewEngine(table, localRate)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns the engine for Japanese income tax plus resident tax.
func Default() *Engine {
	return defaultEngine
}

// ComputeTax is Default().ComputeTax.
func ComputeTax(totalIncome float64) float64 {
	return defaultEngine.ComputeTax(totalIncome)
}

// ComputeTax returns the total tax owed on totalIncome. Non-positive income
// owes nothing. An income no bracket covers (only NaN, given a validated
// table) also yields 0.
func (e *Engine) ComputeTax(totalIncome float64) float64 {
	if totalIncome <= 0 {
		return 0
	}
	b, ok := e.table.lookup(totalIncome)
	if !ok {
		return 0
	}
	national := totalIncome*b.Rate - b.Deduction
	local := totalIncome * e.localRate
	return national + local
}

// MarginalRate is the combined rate applied to the next yen at income.
// It is informational only; Estimate never derives the burden from it.
func (e *Engine) MarginalRate(income float64) float64 {
	if income < 0 {
		income = 0
	}
	b, ok := e.table.lookup(income)
	if !ok {
		return 0
	}
	return b.Rate + e.localRate
}

// Breakdown is the result of adding a profit to a base income.
type Breakdown struct {
	Profit      float64
	TaxBefore   float64
	TaxAfter    float64
	TaxIncrease float64
	NetProfit   float64
}

// Estimate computes tax on the base income and on base income plus profit and
// reports the difference. Crossing a bracket changes the rate on the whole
// total, so both totals are taxed in full.
func (e *Engine) Estimate(in models.EstimateInput) Breakdown {
	profit := in.Amount * (in.SellPrice - in.BuyPrice)
	if math.IsNaN(profit) || math.IsInf(profit, 0) {
		profit = 0
	}
	base := in.Income
	if math.IsNaN(base) || math.IsInf(base, 0) {
		base = 0
	}

	before := e.ComputeTax(base)
	after := e.ComputeTax(base + profit)
	increase := after - before

	return Breakdown{
		Profit:      profit,
		TaxBefore:   before,
		TaxAfter:    after,
		TaxIncrease: increase,
		NetProfit:   profit - increase,
	}
}

// IncrementalBurden is the extra tax caused by adding profit to baseIncome.
func (e *Engine) IncrementalBurden(baseIncome, profit float64) float64 {
	return e.ComputeTax(baseIncome+profit) - e.ComputeTax(baseIncome)
}
