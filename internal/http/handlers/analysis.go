package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/clients/insight"
	"github.com/serenehq/serene-backend/internal/http/response"
	"github.com/serenehq/serene-backend/internal/pkg/ctxutil"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/services"
)

type AnalysisHandler struct {
	log             *logger.Logger
	analysisService services.AnalysisService
}

func NewAnalysisHandler(log *logger.Logger, analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log.With("handler", "AnalysisHandler"),
		analysisService: analysisService,
	}
}

// Analyze accepts a multipart room photo, attaches the user's accumulated
// context, and returns the insight service's analysis verbatim.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_image", fmt.Errorf("image file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_image", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_image", err)
		return
	}

	result, err := h.analysisService.AnalyzeImage(c.Request.Context(), rd.UserID, insight.ImageUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", result.Raw)
}

func (h *AnalysisHandler) respondAnalysisError(c *gin.Context, err error) {
	var upstream *insight.UpstreamError
	switch {
	case errors.Is(err, insight.ErrPayloadTooLarge):
		response.RespondError(c, http.StatusRequestEntityTooLarge, "image_too_large", err)
	case errors.As(err, &upstream):
		response.RespondUpstreamError(c, http.StatusBadGateway, "analysis_rejected", err, upstream.Body)
	case errors.Is(err, insight.ErrUnavailable):
		response.RespondError(c, http.StatusBadGateway, "analysis_unavailable", err)
	case errors.Is(err, insight.ErrMalformedPayload):
		response.RespondError(c, http.StatusBadGateway, "analysis_malformed", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
	}
}
