package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/http/response"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/services"
)

type PreferenceSummaryHandler struct {
	log            *logger.Logger
	summaryService services.PreferenceSummaryService
}

func NewPreferenceSummaryHandler(log *logger.Logger, summaryService services.PreferenceSummaryService) *PreferenceSummaryHandler {
	return &PreferenceSummaryHandler{
		log:            log.With("handler", "PreferenceSummaryHandler"),
		summaryService: summaryService,
	}
}

func (h *PreferenceSummaryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	summary, err := h.summaryService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "get_summary_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"preference_summary": summary})
}

// GetByConversation returns 404 while enrichment has not completed (or never
// will); that is the queryable "no summary yet" state.
func (h *PreferenceSummaryHandler) GetByConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	summary, err := h.summaryService.GetByConversation(c.Request.Context(), conversationID)
	if err != nil {
		respondServiceError(c, "get_summary_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"preference_summary": summary})
}

func (h *PreferenceSummaryHandler) List(c *gin.Context) {
	summaries, err := h.summaryService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, "list_summaries_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"preference_summaries": summaries})
}
