package study

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
	"github.com/PRIYADHARSANK/Study-Tool/internal/service"
)

// Handler handles study session API requests
type Handler struct {
	studyService  *service.StudyService
	maxUploadSize int64
}

// NewHandler creates a new study handler
func NewHandler(studyService *service.StudyService, maxUploadSize int64) *Handler {
	return &Handler{studyService: studyService, maxUploadSize: maxUploadSize}
}

// RegisterRoutes registers study session routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.CreateSession)
	r.GET("/:id", h.GetSession)
	r.POST("/:id/document", h.UploadDocument)
	r.DELETE("/:id/document", h.RemoveDocument)
	r.POST("/:id/summarize", h.Summarize)
	r.POST("/:id/quiz", h.GenerateQuiz)
	r.POST("/:id/quiz/score", h.ScoreQuiz)
	r.POST("/:id/ask", h.Ask)
	r.GET("/:id/export", h.ExportTranscript)
}

// CreateSession starts a new empty session
func (h *Handler) CreateSession(c *gin.Context) {
	id, err := h.studyService.CreateSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetSession returns the current session state
func (h *Handler) GetSession(c *gin.Context) {
	st, err := h.studyService.GetState(c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load session")
		return
	}

	c.JSON(http.StatusOK, st)
}

// UploadDocument accepts a PDF as the multipart field "pdf" and makes it the
// session's active document.
func (h *Handler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pdf file is required"})
		return
	}
	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer src.Close()

	doc, err := h.studyService.UploadDocument(
		c.Param("id"),
		file.Filename,
		file.Header.Get("Content-Type"),
		file.Size,
		src,
	)
	if err != nil {
		h.writeError(c, err, "failed to process file")
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// RemoveDocument clears the active document and resets the session
func (h *Handler) RemoveDocument(c *gin.Context) {
	if err := h.studyService.RemoveDocument(c.Param("id")); err != nil {
		h.writeError(c, err, "failed to remove document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document removed"})
}

// Summarize generates a summary of the active document
func (h *Handler) Summarize(c *gin.Context) {
	summary, err := h.studyService.Summarize(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to generate summary")
		return
	}

	c.JSON(http.StatusOK, domain.SummarizeResponse{Summary: summary})
}

// GenerateQuiz generates a quiz from the active document
func (h *Handler) GenerateQuiz(c *gin.Context) {
	var req domain.GenerateQuizRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	quiz, err := h.studyService.GenerateQuiz(c.Request.Context(), c.Param("id"), req.PreviousQuestions)
	if err != nil {
		h.writeError(c, err, "failed to generate quiz")
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// ScoreQuiz scores a full set of selections against the current quiz
func (h *Handler) ScoreQuiz(c *gin.Context) {
	var req domain.ScoreQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.studyService.ScoreQuiz(c.Param("id"), req.Selections)
	if err != nil {
		h.writeError(c, err, "failed to score quiz")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Ask answers a question about the active document
func (h *Handler) Ask(c *gin.Context) {
	var req domain.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.studyService.Ask(c.Request.Context(), c.Param("id"), req.Question)
	if err != nil {
		h.writeError(c, err, "failed to get an answer")
		return
	}

	c.JSON(http.StatusOK, domain.AskResponse{Answer: answer})
}

// ExportTranscript downloads the chat transcript as txt or pdf
func (h *Handler) ExportTranscript(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatText)

	name, content, mimeType, err := h.studyService.ExportTranscript(c.Param("id"), format)
	if err != nil {
		h.writeError(c, err, "failed to export transcript")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, mimeType, content)
}

// writeError maps domain errors to HTTP status codes. Operation failures get
// the generic message; the underlying cause stays in the server log.
func (h *Handler) writeError(c *gin.Context, err error, failureMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, domain.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "operation already in progress"})
	case errors.Is(err, domain.ErrNoDocument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no document uploaded"})
	case errors.Is(err, domain.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files are supported"})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEncoding):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOperationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": failureMsg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
