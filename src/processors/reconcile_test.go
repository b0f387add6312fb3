package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/fxdiary/backend/src/models"
)

func profitRow(id, buyID, sellID, createdAt string) models.ProfitRecord {
	return models.ProfitRecord{
		ID:           id,
		BuyRecordID:  buyID,
		SellRecordID: sellID,
		CreatedAt:    createdAt,
	}
}

func TestDuplicateProfitIDs_KeepsEarliestPerPair(t *testing.T) {
	profits := []models.ProfitRecord{
		profitRow("profit_c", "INV_0001", "INV_0002", "2025-07-01 10:00:02"),
		profitRow("profit_a", "INV_0001", "INV_0002", "2025-07-01 10:00:00"),
		profitRow("profit_b", "INV_0001", "INV_0002", "2025-07-01 10:00:01"),
		profitRow("profit_d", "INV_0003", "INV_0004", "2025-07-01 10:00:03"),
	}

	toDelete := DuplicateProfitIDs(profits)

	assert.ElementsMatch(t, []string{"profit_b", "profit_c"}, toDelete)
}

func TestDuplicateProfitIDs_NoDuplicates(t *testing.T) {
	profits := []models.ProfitRecord{
		profitRow("profit_a", "INV_0001", "INV_0002", "2025-07-01 10:00:00"),
		profitRow("profit_b", "INV_0003", "INV_0004", "2025-07-01 10:00:01"),
	}

	assert.Empty(t, DuplicateProfitIDs(profits))
}

func TestDuplicateProfitIDs_Idempotent(t *testing.T) {
	profits := []models.ProfitRecord{
		profitRow("profit_a", "INV_0001", "INV_0002", "2025-07-01 10:00:00"),
		profitRow("profit_b", "INV_0001", "INV_0002", "2025-07-01 10:00:01"),
	}

	toDelete := DuplicateProfitIDs(profits)
	assert.Equal(t, []string{"profit_b"}, toDelete)

	// Applying the deletions and sweeping again is a no-op.
	remaining := []models.ProfitRecord{profits[0]}
	assert.Empty(t, DuplicateProfitIDs(remaining))
}

func TestDuplicateProfitIDs_EqualCreatedAtTieBreaksOnID(t *testing.T) {
	profits := []models.ProfitRecord{
		profitRow("profit_b", "INV_0001", "INV_0002", "2025-07-01 10:00:00"),
		profitRow("profit_a", "INV_0001", "INV_0002", "2025-07-01 10:00:00"),
	}

	assert.Equal(t, []string{"profit_b"}, DuplicateProfitIDs(profits))
}

func TestDuplicateProfitIDs_DistinctPairsSharingOneSide(t *testing.T) {
	// Same buy referenced by two different sells is two distinct pairs, not a
	// duplicate.
	profits := []models.ProfitRecord{
		profitRow("profit_a", "INV_0001", "INV_0002", "2025-07-01 10:00:00"),
		profitRow("profit_b", "INV_0001", "INV_0003", "2025-07-01 10:00:01"),
	}

	assert.Empty(t, DuplicateProfitIDs(profits))
}
