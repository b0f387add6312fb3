package processors

import "github.com/username/fxdiary/backend/src/models"

// CalculateProfit produces the closed record for one (buy, sell) pairing.
// The won amounts are recomputed as amount x rate rather than read from the
// stored WonAmount fields: the stored values come from a separate OCR field
// and can diverge slightly through bank rounding and fees, so profit
// accounting always uses the normalized product. Amounts and rates are
// invariant-enforced positive at ingestion; a zero buy amount here is a
// precondition violation by the caller.
//
// ID and CreatedAt are left for the caller to assign at persistence time.
func CalculateProfit(buy, sell models.InvestmentRecord) models.ProfitRecord {
	buyWon := buy.ForeignAmount * buy.ExchangeRate
	sellWon := sell.ForeignAmount * sell.ExchangeRate
	profit := sellWon - buyWon

	return models.ProfitRecord{
		BuyOccurredAt:  buy.OccurredAt,
		SellOccurredAt: sell.OccurredAt,
		BuyRecordID:    buy.ID,
		SellRecordID:   sell.ID,
		ForeignAmount:  sell.ForeignAmount,
		BuyRate:        buy.ExchangeRate,
		SellRate:       sell.ExchangeRate,
		BuyWonAmount:   buyWon,
		SellWonAmount:  sellWon,
		Profit:         profit,
		ProfitRate:     profit / buyWon * 100,
	}
}
