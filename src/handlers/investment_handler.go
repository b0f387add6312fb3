// backend/src/handlers/investment_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/fxdiary/backend/src/logger"
	"github.com/username/fxdiary/backend/src/models"
	"github.com/username/fxdiary/backend/src/services"
	"github.com/username/fxdiary/backend/src/utils"
)

type InvestmentHandler struct {
	investmentService services.InvestmentService
}

func NewInvestmentHandler(investmentService services.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
	}
}

// IngestRequest is the body of a record submission: a batch of confirmed
// candidates plus their provenance.
type IngestRequest struct {
	Records []models.CandidateRecord `json:"records"`
	Origin  string                   `json:"origin"`
}

func (h *InvestmentHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	response, err := h.investmentService.ListRecords()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list records", "error", err)
		utils.SendJSONError(w, "Failed to load records", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, response, http.StatusOK)
}

func (h *InvestmentHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Records) == 0 {
		utils.SendJSONError(w, "No records provided", http.StatusBadRequest)
		return
	}
	if req.Origin == "" {
		req.Origin = models.OriginExtracted
	}

	ctxLogger := logger.FromContext(r.Context())
	ctxLogger.Info("Handling record ingestion", "count", len(req.Records), "origin", req.Origin)

	results := h.investmentService.Ingest(req.Records, req.Origin)

	utils.SendJSON(w, map[string]interface{}{
		"success": true,
		"results": results,
	}, http.StatusOK)
}

func (h *InvestmentHandler) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.SendJSONError(w, "Record id is required", http.StatusBadRequest)
		return
	}

	result, err := h.investmentService.DeleteInvestment(id)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete record", "id", id, "error", err)
		utils.SendJSONError(w, "Failed to delete record", http.StatusInternalServerError)
		return
	}
	if !result.Deleted {
		utils.SendJSON(w, result, http.StatusNotFound)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

func (h *InvestmentHandler) HandleDeleteProfit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.SendJSONError(w, "Profit id is required", http.StatusBadRequest)
		return
	}

	deleted, err := h.investmentService.DeleteProfit(id)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete profit record", "id", id, "error", err)
		utils.SendJSONError(w, "Failed to delete profit record", http.StatusInternalServerError)
		return
	}
	if !deleted {
		utils.SendJSONError(w, "Profit record not found", http.StatusNotFound)
		return
	}
	utils.SendJSON(w, map[string]interface{}{
		"success": true,
		"message": "profit record deleted",
	}, http.StatusOK)
}

func (h *InvestmentHandler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.investmentService.ClearAll(); err != nil {
		logger.FromContext(r.Context()).Error("Failed to clear records", "error", err)
		utils.SendJSONError(w, "Failed to clear records", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]interface{}{
		"success": true,
		"message": "all records deleted",
	}, http.StatusOK)
}

func (h *InvestmentHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	removed, err := h.investmentService.Reconcile()
	if err != nil {
		logger.FromContext(r.Context()).Error("Reconciliation failed", "error", err)
		utils.SendJSONError(w, "Reconciliation failed", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]interface{}{
		"success": true,
		"removed": removed,
		"message": fmt.Sprintf("reconciliation removed %d duplicate profit records", removed),
	}, http.StatusOK)
}
