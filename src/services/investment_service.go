// backend/src/services/investment_service.go
package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/fxdiary/backend/src/models"
	"github.com/username/fxdiary/backend/src/processors"
	"github.com/username/fxdiary/backend/src/storage"
	"github.com/username/fxdiary/backend/src/utils"
)

const (
	ckMonthlySummary       = "res_monthly_summary"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

const occurredAtLayout = "2006-01-02 15:04"

type investmentServiceImpl struct {
	store       storage.Store
	log         *slog.Logger
	reportCache *cache.Cache
}

// NewInvestmentService wires the service to an explicit store handle, a
// structured logger for its decision events, and a report cache.
func NewInvestmentService(store storage.Store, log *slog.Logger, reportCache *cache.Cache) InvestmentService {
	return &investmentServiceImpl{
		store:       store,
		log:         log,
		reportCache: reportCache,
	}
}

func (s *investmentServiceImpl) Ingest(candidates []models.CandidateRecord, origin string) []models.IngestResult {
	results := make([]models.IngestResult, 0, len(candidates))

	for _, candidate := range candidates {
		results = append(results, s.ingestOne(candidate, origin))
	}

	// Correctness backstop for the duplicate-profit race: repair, don't lock.
	removed, err := s.Reconcile()
	if err != nil {
		s.log.Error("post-batch reconciliation failed", "error", err)
	} else if removed > 0 {
		s.log.Warn("reconciliation removed duplicate profit records", "removed", removed)
	}

	s.invalidateReportCache()
	return results
}

func (s *investmentServiceImpl) ingestOne(candidate models.CandidateRecord, origin string) models.IngestResult {
	if err := validateCandidate(candidate, origin); err != nil {
		s.log.Info("candidate rejected: validation", "error", err)
		return models.IngestResult{Success: false, Message: err.Error()}
	}

	openRecords, err := s.store.ListOpen("", true)
	if err != nil {
		s.log.Error("listing open records failed", "error", err)
		return models.IngestResult{Success: false, Message: "could not read existing records"}
	}
	if processors.IsDuplicate(candidate, openRecords) {
		s.log.Info("candidate rejected: duplicate",
			"occurredAt", candidate.OccurredAt, "type", candidate.Type, "foreignAmount", candidate.ForeignAmount)
		return models.IngestResult{Success: false, Duplicate: true, Message: "duplicate record skipped"}
	}

	id, err := s.store.NextID()
	if err != nil {
		s.log.Error("id assignment failed", "error", err)
		return models.IngestResult{Success: false, Message: "could not assign record id"}
	}

	record := models.InvestmentRecord{
		ID:            id,
		OccurredAt:    candidate.OccurredAt,
		Type:          candidate.Type,
		ForeignAmount: candidate.ForeignAmount,
		ExchangeRate:  candidate.ExchangeRate,
		WonAmount:     candidate.WonAmount,
		Origin:        origin,
	}
	if err := s.store.InsertOpen(record); err != nil {
		s.log.Error("inserting record failed", "id", id, "error", err)
		return models.IngestResult{Success: false, Message: "could not persist record"}
	}

	result := models.IngestResult{Success: true, Message: "record saved", Record: &record}
	if record.Type == models.TypeSell {
		if profit := s.tryClose(record); profit != nil {
			result.Profit = profit
			result.Message = "record saved and matched"
		}
	}
	return result
}

// tryClose matches a freshly persisted sell against the current open buys and
// closes the pair. Returns the persisted profit record, or nil when the sell
// stays open (no match, or the pair was already closed by a concurrent run).
func (s *investmentServiceImpl) tryClose(sell models.InvestmentRecord) *models.ProfitRecord {
	openBuys, err := s.store.ListOpen(models.TypeBuy, true)
	if err != nil {
		s.log.Error("listing open buys failed", "sellID", sell.ID, "error", err)
		return nil
	}

	match := processors.FindMatch(sell, openBuys)
	if match == nil {
		s.log.Info("no match found, sell stays open", "sellID", sell.ID, "foreignAmount", sell.ForeignAmount)
		return nil
	}
	s.log.Info("match found", "buyID", match.ID, "sellID", sell.ID,
		"buyOccurredAt", match.OccurredAt, "sellOccurredAt", sell.OccurredAt)

	exists, err := s.store.HasClosedPair(match.ID, sell.ID)
	if err != nil {
		s.log.Error("profit pair lookup failed", "buyID", match.ID, "sellID", sell.ID, "error", err)
		return nil
	}
	if exists {
		s.log.Warn("profit record for pair already exists, skipping close", "buyID", match.ID, "sellID", sell.ID)
		return nil
	}

	profit := processors.CalculateProfit(*match, sell)
	profit.ID = "profit_" + uuid.NewString()

	if err := s.store.CloseMatch(profit, match.ID, sell.ID); err != nil {
		if errors.Is(err, storage.ErrPairExists) {
			s.log.Warn("pair closed concurrently, skipping", "buyID", match.ID, "sellID", sell.ID)
			return nil
		}
		s.log.Error("closing matched pair failed", "buyID", match.ID, "sellID", sell.ID, "error", err)
		return nil
	}

	s.log.Info("pair closed", "buyID", match.ID, "sellID", sell.ID,
		"profit", profit.Profit, "profitRate", profit.ProfitRate)
	return &profit
}

func (s *investmentServiceImpl) ListRecords() (*models.RecordsResponse, error) {
	investments, err := s.store.ListOpen("", false)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	profits, err := s.store.ListClosed()
	if err != nil {
		return nil, fmt.Errorf("listing profits: %w", err)
	}
	if investments == nil {
		investments = []models.InvestmentRecord{}
	}
	if profits == nil {
		profits = []models.ProfitRecord{}
	}
	return &models.RecordsResponse{Investments: investments, Profits: profits}, nil
}

func (s *investmentServiceImpl) DeleteInvestment(id string) (*models.DeleteResult, error) {
	record, err := s.store.GetOpen(id)
	if err != nil {
		return nil, fmt.Errorf("looking up record %s: %w", id, err)
	}
	if record == nil {
		return &models.DeleteResult{Deleted: false, Message: "record not found"}, nil
	}

	// Profit rows referencing the record go first so no dangling audit
	// references survive a user-forced delete.
	cascaded, err := s.store.DeleteClosedByOpenID(id)
	if err != nil {
		return nil, fmt.Errorf("deleting related profits for %s: %w", id, err)
	}
	affected, err := s.store.DeleteOpen(id)
	if err != nil {
		return nil, fmt.Errorf("deleting record %s: %w", id, err)
	}
	if affected == 0 {
		return &models.DeleteResult{Deleted: false, CascadedProfits: cascaded, Message: "record could not be deleted"}, nil
	}

	s.log.Info("record deleted", "id", id, "type", record.Type, "cascadedProfits", cascaded)
	s.invalidateReportCache()

	message := fmt.Sprintf("%s record deleted", record.Type)
	if cascaded > 0 {
		message += fmt.Sprintf(" (%d related profit records removed)", cascaded)
	}
	return &models.DeleteResult{Deleted: true, CascadedProfits: cascaded, Message: message}, nil
}

func (s *investmentServiceImpl) DeleteProfit(id string) (bool, error) {
	affected, err := s.store.DeleteClosed(id)
	if err != nil {
		return false, fmt.Errorf("deleting profit %s: %w", id, err)
	}
	if affected == 0 {
		return false, nil
	}
	s.log.Info("profit record deleted", "id", id)
	s.invalidateReportCache()
	return true, nil
}

func (s *investmentServiceImpl) Reconcile() (int, error) {
	profits, err := s.store.ListClosed()
	if err != nil {
		return 0, fmt.Errorf("listing profits for reconciliation: %w", err)
	}

	removed := 0
	for _, id := range processors.DuplicateProfitIDs(profits) {
		affected, err := s.store.DeleteClosed(id)
		if err != nil {
			return removed, fmt.Errorf("removing duplicate profit %s: %w", id, err)
		}
		removed += int(affected)
	}
	if removed > 0 {
		s.invalidateReportCache()
	}
	return removed, nil
}

func (s *investmentServiceImpl) ClearAll() error {
	if err := s.store.ClearAll(); err != nil {
		return fmt.Errorf("clearing all records: %w", err)
	}
	s.log.Info("all records cleared")
	s.invalidateReportCache()
	return nil
}

func (s *investmentServiceImpl) MonthlySummary() ([]models.MonthSummary, error) {
	if cached, found := s.reportCache.Get(ckMonthlySummary); found {
		return cached.([]models.MonthSummary), nil
	}

	investments, err := s.store.ListOpen("", true)
	if err != nil {
		return nil, fmt.Errorf("listing investments for summary: %w", err)
	}
	profits, err := s.store.ListClosed()
	if err != nil {
		return nil, fmt.Errorf("listing profits for summary: %w", err)
	}

	byMonth := make(map[string]*models.MonthSummary)
	monthOf := func(occurredAt string) string {
		if len(occurredAt) < 7 {
			return occurredAt
		}
		return occurredAt[:7]
	}
	get := func(month string) *models.MonthSummary {
		if summary, ok := byMonth[month]; ok {
			return summary
		}
		summary := &models.MonthSummary{Month: month}
		byMonth[month] = summary
		return summary
	}

	for _, rec := range investments {
		summary := get(monthOf(rec.OccurredAt))
		if rec.Type == models.TypeBuy {
			summary.BuyCount++
		} else {
			summary.SellCount++
		}
	}

	rateSums := make(map[string]float64)
	for _, p := range profits {
		month := monthOf(p.SellOccurredAt)
		summary := get(month)
		summary.RealizedProfit += p.Profit
		summary.ClosedPairCount++
		rateSums[month] += p.ProfitRate
	}

	summaries := make([]models.MonthSummary, 0, len(byMonth))
	for month, summary := range byMonth {
		if summary.ClosedPairCount > 0 {
			summary.AvgProfitRate = utils.RoundFloat(rateSums[month]/float64(summary.ClosedPairCount), 2)
		}
		summary.RealizedProfit = utils.RoundFloat(summary.RealizedProfit, 2)
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Month < summaries[j].Month })

	s.reportCache.Set(ckMonthlySummary, summaries, DefaultCacheExpiration)
	return summaries, nil
}

func (s *investmentServiceImpl) invalidateReportCache() {
	s.reportCache.Delete(ckMonthlySummary)
}

func validateCandidate(c models.CandidateRecord, origin string) error {
	if origin != models.OriginExtracted && origin != models.OriginManual {
		return fmt.Errorf("%w: unknown origin %q", ErrValidationFailed, origin)
	}
	if c.Type != models.TypeBuy && c.Type != models.TypeSell {
		return fmt.Errorf("%w: type must be BUY or SELL", ErrValidationFailed)
	}
	if _, err := time.Parse(occurredAtLayout, c.OccurredAt); err != nil {
		return fmt.Errorf("%w: occurred_at must be in YYYY-MM-DD HH:MM form", ErrValidationFailed)
	}
	if c.ForeignAmount <= 0 {
		return fmt.Errorf("%w: foreign amount must be positive", ErrValidationFailed)
	}
	if c.ExchangeRate <= 0 {
		return fmt.Errorf("%w: exchange rate must be positive", ErrValidationFailed)
	}
	if c.WonAmount <= 0 {
		return fmt.Errorf("%w: won amount must be positive", ErrValidationFailed)
	}
	return nil
}
