// backend/src/handlers/summary_handler.go
package handlers

import (
	"net/http"

	"github.com/username/fxdiary/backend/src/logger"
	"github.com/username/fxdiary/backend/src/services"
	"github.com/username/fxdiary/backend/src/utils"
)

type SummaryHandler struct {
	investmentService services.InvestmentService
}

func NewSummaryHandler(investmentService services.InvestmentService) *SummaryHandler {
	return &SummaryHandler{
		investmentService: investmentService,
	}
}

func (h *SummaryHandler) HandleGetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.investmentService.MonthlySummary()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to build monthly summary", "error", err)
		utils.SendJSONError(w, "Failed to build monthly summary", http.StatusInternalServerError)
		return
	}

	etag, err := utils.GenerateETag(summaries)
	if err == nil {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	utils.SendJSON(w, summaries, http.StatusOK)
}
