package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/http/response"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/services"
)

type AssessmentHandler struct {
	log               *logger.Logger
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(log *logger.Logger, assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		log:               log.With("handler", "AssessmentHandler"),
		assessmentService: assessmentService,
	}
}

// Save accepts a multipart form: repeated "selected_issues" values, free-text
// "comments" and "no_change_comments", and an optional "image" file.
func (h *AssessmentHandler) Save(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	form := c.Request.MultipartForm

	input := services.SaveAssessmentInput{}
	if form != nil {
		for _, issue := range form.Value["selected_issues"] {
			if v := strings.TrimSpace(issue); v != "" {
				input.SelectedIssues = append(input.SelectedIssues, v)
			}
		}
		if v := form.Value["comments"]; len(v) > 0 {
			input.Comments = strings.TrimSpace(v[0])
		}
		if v := form.Value["no_change_comments"]; len(v) > 0 {
			input.NoChangeComments = strings.TrimSpace(v[0])
		}
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
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
		input.ImageData = data
		input.ImageName = fileHeader.Filename
	}

	assessment, err := h.assessmentService.Save(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, "save_assessment_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"assessment": assessment})
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	assessment, err := h.assessmentService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "get_assessment_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"assessment": assessment})
}

func (h *AssessmentHandler) List(c *gin.Context) {
	assessments, err := h.assessmentService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, "list_assessments_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"assessments": assessments})
}
