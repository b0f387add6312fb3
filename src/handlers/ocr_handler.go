// backend/src/handlers/ocr_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/username/fxdiary/backend/src/logger"
	"github.com/username/fxdiary/backend/src/ocr"
	"github.com/username/fxdiary/backend/src/utils"
)

type OCRHandler struct{}

func NewOCRHandler() *OCRHandler {
	return &OCRHandler{}
}

// ParseRequest carries the already-recognized screenshot text. Recognition
// itself happens outside this service; only text comes in.
type ParseRequest struct {
	Text string `json:"text"`
}

// HandleParse extracts candidate fields from recognized text so the client
// can show a preview-before-save form. A candidate with zero-valued fields is
// a normal response, not an error.
func (h *OCRHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		utils.SendJSONError(w, "Text is required", http.StatusBadRequest)
		return
	}

	candidate := ocr.Parse(req.Text)
	logger.FromContext(r.Context()).Info("Parsed OCR text",
		"occurredAt", candidate.OccurredAt, "type", candidate.Type,
		"foreignAmount", candidate.ForeignAmount, "exchangeRate", candidate.ExchangeRate)

	utils.SendJSON(w, candidate, http.StatusOK)
}
