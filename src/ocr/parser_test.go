package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/fxdiary/backend/src/models"
)

func TestParse_BuyScreenshot(t *testing.T) {
	text := `신한 SOL뱅크
2025년 7월 1일 15:08
환전 거래 완료
USD 사기
-100.00
거래 외화 금액 100.00 달러
적용 환율 1,345.62
원화 출금 금액 134,562원
확인`

	candidate := Parse(text)
	require.NotNil(t, candidate)

	assert.Equal(t, "2025-07-01 15:08", candidate.OccurredAt)
	assert.Equal(t, models.TypeBuy, candidate.Type)
	assert.Equal(t, 100.00, candidate.ForeignAmount)
	assert.Equal(t, 1345.62, candidate.ExchangeRate)
	assert.Equal(t, 134562.0, candidate.WonAmount)
	assert.Equal(t, ExtractedConfidence, candidate.Confidence)
}

func TestParse_SellScreenshot(t *testing.T) {
	text := `2025년 12월 9일 9:05
USD 팔기
+1,250.00
적용 환율 1,402.10
원화 입금 금액 1,752,625원`

	candidate := Parse(text)
	require.NotNil(t, candidate)

	assert.Equal(t, "2025-12-09 09:05", candidate.OccurredAt)
	assert.Equal(t, models.TypeSell, candidate.Type)
	assert.Equal(t, 1250.00, candidate.ForeignAmount)
	assert.Equal(t, 1402.10, candidate.ExchangeRate)
	assert.Equal(t, 1752625.0, candidate.WonAmount)
}

func TestParse_SixDigitRateRecovery(t *testing.T) {
	tests := []struct {
		name string
		line string
		want float64
	}{
		{"six digits without separator", "적용 환율 134562", 1345.62},
		{"six digits with noise characters", "적용 환율 1,345.62", 1345.62},
		{"five digits discarded", "적용 환율 13456", 0},
		{"seven digits discarded", "적용 환율 1345629", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := Parse(tt.line)
			assert.Equal(t, tt.want, candidate.ExchangeRate)
		})
	}
}

func TestParse_RateSanityBand(t *testing.T) {
	// Six clean digits that decode outside the plausible KRW/USD band are a
	// misread of some other line and must be rejected.
	candidate := Parse("적용 환율 999999")
	assert.Equal(t, 0.0, candidate.ExchangeRate)

	// A later in-band rate line still wins after a rejected one.
	candidate = Parse("적용 환율 999999\n적용 환율 134562")
	assert.Equal(t, 1345.62, candidate.ExchangeRate)
}

func TestParse_ForeignAmountFallbackTier(t *testing.T) {
	// No parsable number below the keyword line: the labeled line's six-digit
	// run is reinterpreted as DDDD.DD.
	text := `USD 사기
확인
거래 외화 금액 012345 달러`

	candidate := Parse(text)
	assert.Equal(t, 123.45, candidate.ForeignAmount)
}

func TestParse_FallbackRequiresExactlySixDigits(t *testing.T) {
	// 100.00 on the label line collapses to five digits, which is unreliable.
	candidate := Parse("USD 사기\n확인\n거래 외화 금액 100.00 달러")
	assert.Equal(t, 0.0, candidate.ForeignAmount)
}

func TestParse_PrimaryTierTakesAbsoluteValue(t *testing.T) {
	candidate := Parse("USD 사기\n-1,234.56")
	assert.Equal(t, 1234.56, candidate.ForeignAmount)
}

func TestParse_DefaultsDirectionToBuy(t *testing.T) {
	// Documented default: with no recognizable direction keyword the
	// candidate is reported as a buy and left for manual confirmation.
	candidate := Parse("2025년 7월 1일 15:08\n알 수 없는 내용")
	assert.Equal(t, models.TypeBuy, candidate.Type)
}

func TestParse_EmptyAndChromeOnlyText(t *testing.T) {
	candidate := Parse("")
	require.NotNil(t, candidate)
	assert.Equal(t, models.TypeBuy, candidate.Type)
	assert.Empty(t, candidate.OccurredAt)
	assert.Zero(t, candidate.ForeignAmount)
	assert.Zero(t, candidate.ExchangeRate)
	assert.Zero(t, candidate.WonAmount)
	assert.Equal(t, ExtractedConfidence, candidate.Confidence)
}

func TestParse_FirstDateWins(t *testing.T) {
	text := `2025년 7월 1일 15:08
2025년 7월 2일 16:30`

	candidate := Parse(text)
	assert.Equal(t, "2025-07-01 15:08", candidate.OccurredAt)
}

func TestParse_LaterWonLabelOverwrites(t *testing.T) {
	text := `원화 출금 금액 134,562원
원화 입금 금액 999,999원`

	candidate := Parse(text)
	// Later lines overwrite: line scanning keeps the last matching label.
	assert.Equal(t, 999999.0, candidate.WonAmount)
}
