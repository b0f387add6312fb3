package processors

import (
	"sort"

	"github.com/username/fxdiary/backend/src/models"
)

type pairKey struct {
	buyID  string
	sellID string
}

// DuplicateProfitIDs returns the IDs of redundant profit rows: for every
// (buyRecordId, sellRecordId) pair with more than one row, all but the
// earliest-created survive the cut. An empty result means the closed set is
// already consistent, so applying the returned deletions is idempotent.
func DuplicateProfitIDs(profits []models.ProfitRecord) []string {
	groups := make(map[pairKey][]models.ProfitRecord)
	for _, p := range profits {
		key := pairKey{buyID: p.BuyRecordID, sellID: p.SellRecordID}
		groups[key] = append(groups[key], p)
	}

	var toDelete []string
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		// Keep the earliest createdAt; ID tie-break for determinism. The
		// CURRENT_TIMESTAMP format sorts lexically in chronological order.
		sort.Slice(group, func(i, j int) bool {
			if group[i].CreatedAt != group[j].CreatedAt {
				return group[i].CreatedAt < group[j].CreatedAt
			}
			return group[i].ID < group[j].ID
		})
		for _, extra := range group[1:] {
			toDelete = append(toDelete, extra.ID)
		}
	}

	sort.Strings(toDelete)
	return toDelete
}
