// Package processors holds the pure transaction logic: matching an incoming
// sell against open buys, computing realized profit, duplicate detection, and
// selecting redundant profit rows for reconciliation. Nothing here performs
// I/O; all functions operate on value snapshots.
package processors

import (
	"sort"
	"time"

	"github.com/username/fxdiary/backend/src/models"
)

// AmountTolerance is the maximum foreign-amount difference for two records to
// be considered the same trade. It absorbs floating-point drift from upstream
// rounding, not genuinely different trade sizes.
const AmountTolerance = 0.01

const occurredAtLayout = "2006-01-02 15:04"

// FindMatch selects the open buy record a sell closes against: same foreign
// amount within tolerance, strictly earlier occurrence, oldest first. Returns
// nil when no buy qualifies; an unmatched sell is not an error and simply
// stays open. The result depends only on the inputs, never on slice order.
func FindMatch(sell models.InvestmentRecord, openRecords []models.InvestmentRecord) *models.InvestmentRecord {
	sellTime, err := time.Parse(occurredAtLayout, sell.OccurredAt)
	if err != nil {
		return nil
	}

	var candidates []models.InvestmentRecord
	for _, rec := range openRecords {
		if rec.Type != models.TypeBuy {
			continue
		}
		diff := rec.ForeignAmount - sell.ForeignAmount
		if diff < 0 {
			diff = -diff
		}
		if diff >= AmountTolerance {
			continue
		}
		buyTime, err := time.Parse(occurredAtLayout, rec.OccurredAt)
		if err != nil {
			continue
		}
		// A sell can never close a buy that has not yet happened.
		if !buyTime.Before(sellTime) {
			continue
		}
		candidates = append(candidates, rec)
	}
	if len(candidates) == 0 {
		return nil
	}

	// FIFO: oldest open position first. IDs are zero-padded and monotonic,
	// so the ID tie-break keeps the result deterministic for equal timestamps.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].OccurredAt != candidates[j].OccurredAt {
			return candidates[i].OccurredAt < candidates[j].OccurredAt
		}
		return candidates[i].ID < candidates[j].ID
	})

	match := candidates[0]
	return &match
}
