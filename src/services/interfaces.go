// backend/src/services/interfaces.go
package services

import (
	"errors"

	"github.com/username/fxdiary/backend/src/models"
)

// Define common service errors
var (
	ErrValidationFailed = errors.New("candidate validation failed")
	ErrRecordNotFound   = errors.New("record not found")
)

// InvestmentService is the core surface exposed to the transport layer: batch
// ingestion with per-candidate outcomes, record listing and deletion, the
// standalone reconciliation sweep, and the monthly summary report.
type InvestmentService interface {
	// Ingest processes candidates in order and returns one result per input.
	// A single candidate's failure never aborts the batch; the reconciliation
	// sweep runs unconditionally after every batch.
	Ingest(candidates []models.CandidateRecord, origin string) []models.IngestResult

	ListRecords() (*models.RecordsResponse, error)
	DeleteInvestment(id string) (*models.DeleteResult, error)
	DeleteProfit(id string) (bool, error)

	// Reconcile removes redundant closed-profit rows, keeping the earliest
	// per (buy, sell) pair, and returns how many rows were removed. Safe to
	// call at any time; a clean store is a no-op.
	Reconcile() (int, error)

	ClearAll() error
	MonthlySummary() ([]models.MonthSummary, error)
}
