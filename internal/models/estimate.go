package models

// EstimateInput is one snapshot of the calculator form. Amounts are JPY,
// Amount is the number of XRP sold.
type EstimateInput struct {
	Income    float64 `json:"income"`
	Amount    float64 `json:"amount"`
	BuyPrice  float64 `json:"buy_price"`
	SellPrice float64 `json:"sell_price"`
	Date      string  `json:"date,omitempty"`
}

// EstimateResult holds the outcome of a calculation. The *Yen fields are the
// same values rounded to whole yen for display.
type EstimateResult struct {
	SellPrice     float64 `json:"sell_price"`
	PriceResolved bool    `json:"price_resolved"`
	Profit        float64 `json:"profit"`
	TaxBefore     float64 `json:"tax_before"`
	TaxAfter      float64 `json:"tax_after"`
	TaxIncrease   float64 `json:"tax_increase"`
	NetProfit     float64 `json:"net_profit"`
	MarginalRate  float64 `json:"marginal_rate"`

	ProfitYen      int64 `json:"profit_yen"`
	TaxIncreaseYen int64 `json:"tax_increase_yen"`
	NetProfitYen   int64 `json:"net_profit_yen"`
}
