package models

// OCRCandidate is the transient result of parsing recognized screenshot text.
// Zero-valued fields mean the parser could not find that field; the caller is
// expected to route such candidates to manual correction rather than treat
// them as failures. Confidence is a fixed heuristic, not a computed score.
type OCRCandidate struct {
	OccurredAt    string  `json:"occurred_at"`
	Type          string  `json:"type"`
	ForeignAmount float64 `json:"foreign_amount"`
	ExchangeRate  float64 `json:"exchange_rate"`
	WonAmount     float64 `json:"won_amount"`
	Confidence    float64 `json:"confidence"`
}

// CandidateRecord is one proposed record submitted for ingestion, either
// confirmed from an OCRCandidate or entered manually.
type CandidateRecord struct {
	OccurredAt    string  `json:"occurred_at"`
	Type          string  `json:"type"`
	ForeignAmount float64 `json:"foreign_amount"`
	ExchangeRate  float64 `json:"exchange_rate"`
	WonAmount     float64 `json:"won_amount"`
}

// IngestResult is the per-candidate outcome of an ingestion batch, reported
// in input order. A duplicate is a reported skip, not an error.
type IngestResult struct {
	Success   bool              `json:"success"`
	Duplicate bool              `json:"duplicate,omitempty"`
	Message   string            `json:"message,omitempty"`
	Record    *InvestmentRecord `json:"record,omitempty"`
	Profit    *ProfitRecord     `json:"profit,omitempty"`
}
