package processors

import "github.com/username/fxdiary/backend/src/models"

// IsDuplicate reports whether an identical open record already exists. The
// comparison is exact equality on timestamp, direction, amount, and rate: the
// check guards against double-submission of the same screenshot, not against
// near-matches, so no tolerance applies here.
func IsDuplicate(candidate models.CandidateRecord, existing []models.InvestmentRecord) bool {
	for _, rec := range existing {
		if rec.OccurredAt == candidate.OccurredAt &&
			rec.Type == candidate.Type &&
			rec.ForeignAmount == candidate.ForeignAmount &&
			rec.ExchangeRate == candidate.ExchangeRate {
			return true
		}
	}
	return false
}
