// Package ocr extracts transaction candidate fields from recognized
// banking-app screenshot text. Parsing is best-effort: recognition noise
// (dropped decimal points, stray characters, unrelated UI lines) is expected,
// so missing fields produce a zero value rather than a failure and the caller
// decides whether the candidate needs manual correction.
package ocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/username/fxdiary/backend/src/models"
)

// Confidence assigned to every parsed candidate. A fixed heuristic: the
// upstream recognizer gives no per-field scores, so anything beyond a
// constant would be invented precision.
const ExtractedConfidence = 0.8

// Exchange-rate sanity window in KRW per USD. Six-digit reinterpretation on
// the wrong line can produce arbitrary values; anything outside this band is
// discarded as a misread.
const (
	minPlausibleRate = 1000
	maxPlausibleRate = 2000
)

var (
	// e.g. "2025년 7월 1일 15:08"
	datePattern = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일\s*(\d{1,2}):(\d{2})`)

	// "USD 사기" (buy) / "USD 팔기" (sell), possibly embedded in a longer phrase.
	typePattern = regexp.MustCompile(`USD\s*([사팔])[기리]`)

	// Signed decimal with thousands grouping, e.g. "-1,234.56" below the
	// direction keyword line.
	signedAmountPattern = regexp.MustCompile(`[+-]?\d{1,3}(?:,\d{3})*\.\d{2}`)

	foreignLabelPattern = regexp.MustCompile(`거래 ?외화 ?금액|외화 ?금액`)
	rateLabelPattern    = regexp.MustCompile(`적용 ?환율`)

	wonOutPattern = regexp.MustCompile(`원화 출금 금액\s*([\d,]+)원`)
	wonInPattern  = regexp.MustCompile(`원화 입금 금액\s*([\d,]+)원`)

	nonDigitPattern = regexp.MustCompile(`[^0-9]`)
)

// Parse turns one block of recognized text into a candidate. It always
// returns a candidate; absent fields stay zero-valued. The direction defaults
// to BUY when no keyword line was recognized.
func Parse(text string) *models.OCRCandidate {
	lines := splitLines(text)

	candidate := &models.OCRCandidate{
		Type:       models.TypeBuy,
		Confidence: ExtractedConfidence,
	}

	typeLineIdx := -1
	for i, line := range lines {
		if candidate.OccurredAt == "" {
			if m := datePattern.FindStringSubmatch(line); m != nil {
				candidate.OccurredAt = normalizeDate(m)
			}
		}

		if m := typePattern.FindStringSubmatch(line); m != nil && typeLineIdx == -1 {
			typeLineIdx = i
			if m[1] == "팔" {
				candidate.Type = models.TypeSell
			} else {
				candidate.Type = models.TypeBuy
			}
		}

		if candidate.ExchangeRate == 0 && rateLabelPattern.MatchString(line) {
			if val, ok := sixDigitFloat(line); ok && val >= minPlausibleRate && val <= maxPlausibleRate {
				candidate.ExchangeRate = val
			}
		}

		if m := wonOutPattern.FindStringSubmatch(line); m != nil {
			candidate.WonAmount = parseGroupedInt(m[1])
		} else if m := wonInPattern.FindStringSubmatch(line); m != nil {
			candidate.WonAmount = parseGroupedInt(m[1])
		}
	}

	// Foreign amount, primary tier: the signed decimal on the line right
	// below a direction keyword line survives recognition far more reliably
	// than the labeled amount line.
	for i, line := range lines {
		if !typePattern.MatchString(line) || i+1 >= len(lines) {
			continue
		}
		if m := signedAmountPattern.FindString(lines[i+1]); m != "" {
			val, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
			if err == nil {
				if val < 0 {
					val = -val
				}
				candidate.ForeignAmount = val
				break
			}
		}
	}

	// Fallback tier: reconstruct the amount from the labeled line, assuming
	// the decimal point was lost. Only a six-digit run is trustworthy.
	if candidate.ForeignAmount == 0 {
		for _, line := range lines {
			if foreignLabelPattern.MatchString(line) {
				if val, ok := sixDigitFloat(line); ok {
					candidate.ForeignAmount = val
				}
			}
		}
	}

	return candidate
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// normalizeDate renders the matched Korean date groups as "2006-01-02 15:04".
func normalizeDate(m []string) string {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	return fmt.Sprintf("%04d-%02d-%02d %02d:%s", year, month, day, hour, m[5])
}

// sixDigitFloat strips every non-digit character from the line and, when
// exactly six digits remain, reinterprets them as DDDD.DD. Any other digit
// count is unreliable and yields no value.
func sixDigitFloat(line string) (float64, bool) {
	digits := nonDigitPattern.ReplaceAllString(line, "")
	if len(digits) != 6 {
		return 0, false
	}
	val, err := strconv.ParseFloat(digits[:4]+"."+digits[4:], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

func parseGroupedInt(s string) float64 {
	val, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return val
}
