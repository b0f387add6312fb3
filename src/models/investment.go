package models

// Record direction values. A record is either an open USD purchase or an open
// USD sale; the pairing of the two is expressed only through a ProfitRecord.
const (
	TypeBuy  = "BUY"
	TypeSell = "SELL"
)

// Record origin values.
const (
	OriginExtracted = "extracted"
	OriginManual    = "manual"
)

// InvestmentRecord represents a single not-yet-closed buy or sell event.
// OccurredAt is the bank's transaction timestamp in "2006-01-02 15:04" form;
// lexicographic order of that form equals chronological order.
type InvestmentRecord struct {
	ID            string  `json:"id"`
	OccurredAt    string  `json:"occurred_at"`
	Type          string  `json:"type"` // "BUY" or "SELL"
	ForeignAmount float64 `json:"foreign_amount"`
	ExchangeRate  float64 `json:"exchange_rate"`
	WonAmount     float64 `json:"won_amount"` // KRW moved, as reported by the bank
	Origin        string  `json:"origin"`     // "extracted" or "manual"
	CreatedAt     string  `json:"created_at,omitempty"`
}

// ProfitRecord is the realized outcome of one buy matched to one sell. The
// referenced open records no longer exist once this is written; the IDs are
// retained for audit and display only. Profit figures are a snapshot and are
// never recomputed after creation.
type ProfitRecord struct {
	ID             string  `json:"id"`
	BuyOccurredAt  string  `json:"buy_occurred_at"`
	SellOccurredAt string  `json:"sell_occurred_at"`
	BuyRecordID    string  `json:"buy_record_id"`
	SellRecordID   string  `json:"sell_record_id"`
	ForeignAmount  float64 `json:"foreign_amount"` // matched quantity, taken from the sell side
	BuyRate        float64 `json:"buy_rate"`
	SellRate       float64 `json:"sell_rate"`
	BuyWonAmount   float64 `json:"buy_won_amount"`
	SellWonAmount  float64 `json:"sell_won_amount"`
	Profit         float64 `json:"profit"`
	ProfitRate     float64 `json:"profit_rate"` // percent
	CreatedAt      string  `json:"created_at,omitempty"`
}

// RecordsResponse is the combined listing returned by the records endpoint.
type RecordsResponse struct {
	Investments []InvestmentRecord `json:"investments"`
	Profits     []ProfitRecord     `json:"profits"`
}

// DeleteResult reports the outcome of deleting one open record, including how
// many related profit rows were removed first.
type DeleteResult struct {
	Deleted         bool   `json:"deleted"`
	CascadedProfits int64  `json:"cascaded_profits"`
	Message         string `json:"message"`
}

// MonthSummary aggregates one calendar month of activity.
type MonthSummary struct {
	Month           string  `json:"month"` // "2006-01"
	BuyCount        int     `json:"buy_count"`
	SellCount       int     `json:"sell_count"`
	RealizedProfit  float64 `json:"realized_profit"`
	AvgProfitRate   float64 `json:"avg_profit_rate"`
	ClosedPairCount int     `json:"closed_pair_count"`
}
