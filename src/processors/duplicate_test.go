package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/fxdiary/backend/src/models"
)

func TestIsDuplicate(t *testing.T) {
	existing := []models.InvestmentRecord{
		{
			ID:            "INV_0001",
			OccurredAt:    "2025-07-01 15:08",
			Type:          models.TypeBuy,
			ForeignAmount: 100.50,
			ExchangeRate:  1345.62,
		},
	}

	tests := []struct {
		name      string
		candidate models.CandidateRecord
		want      bool
	}{
		{
			name: "identical fields",
			candidate: models.CandidateRecord{
				OccurredAt: "2025-07-01 15:08", Type: models.TypeBuy,
				ForeignAmount: 100.50, ExchangeRate: 1345.62,
			},
			want: true,
		},
		{
			name: "different timestamp",
			candidate: models.CandidateRecord{
				OccurredAt: "2025-07-01 15:09", Type: models.TypeBuy,
				ForeignAmount: 100.50, ExchangeRate: 1345.62,
			},
			want: false,
		},
		{
			name: "different direction",
			candidate: models.CandidateRecord{
				OccurredAt: "2025-07-01 15:08", Type: models.TypeSell,
				ForeignAmount: 100.50, ExchangeRate: 1345.62,
			},
			want: false,
		},
		{
			name: "near-identical amount is not a duplicate",
			candidate: models.CandidateRecord{
				OccurredAt: "2025-07-01 15:08", Type: models.TypeBuy,
				ForeignAmount: 100.501, ExchangeRate: 1345.62,
			},
			want: false,
		},
		{
			name: "different rate",
			candidate: models.CandidateRecord{
				OccurredAt: "2025-07-01 15:08", Type: models.TypeBuy,
				ForeignAmount: 100.50, ExchangeRate: 1345.63,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicate(tt.candidate, existing))
		})
	}
}

func TestIsDuplicate_EmptySet(t *testing.T) {
	candidate := models.CandidateRecord{
		OccurredAt: "2025-07-01 15:08", Type: models.TypeBuy,
		ForeignAmount: 100.50, ExchangeRate: 1345.62,
	}
	assert.False(t, IsDuplicate(candidate, nil))
}
