package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/http/response"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/services"
)

type ConversationHandler struct {
	log                 *logger.Logger
	conversationService services.ConversationService
}

func NewConversationHandler(log *logger.Logger, conversationService services.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		log:                 log.With("handler", "ConversationHandler"),
		conversationService: conversationService,
	}
}

// Save responds as soon as the conversation is durably written. The derived
// preference summary arrives later through enrichment; its id is null here.
func (h *ConversationHandler) Save(c *gin.Context) {
	var input services.SaveConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	conversation, err := h.conversationService.Save(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, "save_conversation_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"conversation": conversation})
}

func (h *ConversationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	conversation, err := h.conversationService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "get_conversation_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"conversation": conversation})
}

func (h *ConversationHandler) List(c *gin.Context) {
	conversations, err := h.conversationService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, "list_conversations_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"conversations": conversations})
}

// respondServiceError maps the shared service sentinels onto HTTP statuses.
func respondServiceError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrForbidden):
		response.RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, services.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, code, err)
	}
}
