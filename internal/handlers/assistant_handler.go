package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fintrack/internal/chat"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/gemini"
	"fintrack/internal/services"
)

// maxUploadBytes caps statement and receipt uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// DocumentModel is the slice of the model client the assistant handler
// needs beyond chat turns.
type DocumentModel interface {
	ParseStatement(ctx context.Context, req *gemini.ParseRequest) ([]gemini.ParsedTransaction, error)
	Report(ctx context.Context, userContext string) (*gemini.FinancialAdvice, error)
}

// AssistantHandler handles chat, statement parsing, and report requests.
// A nil manager or model means no API credential was configured; every
// endpoint then answers 503.
type AssistantHandler struct {
	manager          *chat.Manager
	model            DocumentModel
	assistantService services.AssistantServicer
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(manager *chat.Manager, model DocumentModel, assistantService services.AssistantServicer) *AssistantHandler {
	return &AssistantHandler{manager: manager, model: model, assistantService: assistantService}
}

// ChatRequest represents one chat turn submission. Data carries raw
// attachment bytes, base64-encoded in JSON.
type ChatRequest struct {
	Message    string `json:"message" binding:"max=4000"`
	Attachment *struct {
		Name     string `json:"name" binding:"max=255"`
		MIMEType string `json:"mime_type" binding:"max=100"`
		Text     string `json:"text"`
		Data     []byte `json:"data"`
	} `json:"attachment"`
}

func (h *AssistantHandler) available(c *gin.Context) bool {
	if h.manager == nil || h.model == nil {
		respondWithError(c, apperrors.ErrAssistantUnavailable)
		return false
	}
	return true
}

// Chat runs one assistant turn
// @Summary     Send a chat message
// @Description Send a message to the assistant, optionally with an attachment, and get the reply plus any applied mutations
// @Tags        assistant
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChatRequest true "Chat turn"
// @Success     200 {object} chat.TurnResult "Assistant reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "A turn is already in progress"
// @Failure     429 {object} ErrorResponse "Model rate limited"
// @Failure     502 {object} ErrorResponse "Model call failed"
// @Failure     503 {object} ErrorResponse "Assistant not configured"
// @Router      /assistant/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !h.available(c) {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	userContext, err := h.assistantService.BuildUserContext(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var attachment *chat.Attachment
	if req.Attachment != nil {
		attachment = &chat.Attachment{
			Name:     req.Attachment.Name,
			MIMEType: req.Attachment.MIMEType,
			Text:     req.Attachment.Text,
			Data:     req.Attachment.Data,
		}
	}

	session := h.manager.Session(userID, userContext)
	result, err := session.SendTurn(c.Request.Context(), req.Message, attachment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History returns the chat history
// @Summary     Get chat history
// @Description Get the authenticated user's current chat session history
// @Tags        assistant
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} chat.Message "Chat history"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Assistant not configured"
// @Router      /assistant/history [get]
func (h *AssistantHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !h.available(c) {
		return
	}

	userContext, err := h.assistantService.BuildUserContext(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	session := h.manager.Session(userID, userContext)
	c.JSON(http.StatusOK, gin.H{"history": session.History()})
}

// Reset discards the chat session
// @Summary     Reset chat session
// @Description Discard the authenticated user's chat session and history
// @Tags        assistant
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Session reset"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Assistant not configured"
// @Router      /assistant/chat [delete]
func (h *AssistantHandler) Reset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !h.available(c) {
		return
	}

	h.manager.Reset(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Chat session reset"})
}

// ParseStatement extracts candidate transactions from an uploaded document
// @Summary     Parse a statement
// @Description Upload a bank statement or receipt and get candidate transactions back for review. Nothing is persisted.
// @Tags        assistant
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "Statement file (CSV, TXT, PDF, or image)"
// @Success     200 {array} gemini.ParsedTransaction "Candidate transactions"
// @Failure     400 {object} ErrorResponse "Missing or oversized file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Document could not be read"
// @Failure     429 {object} ErrorResponse "Model rate limited"
// @Failure     502 {object} ErrorResponse "Model call failed"
// @Failure     503 {object} ErrorResponse "Assistant not configured"
// @Router      /assistant/parse [post]
func (h *AssistantHandler) ParseStatement(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}
	if !h.available(c) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	req := &gemini.ParseRequest{FileName: fileHeader.Filename, MIMEType: mimeType}
	// Text formats are decoded locally; everything else is forwarded
	// as opaque bytes for the model to read.
	if isTextualMIME(mimeType) {
		req.Text = string(data)
	} else {
		req.Data = data
	}

	rows, err := h.model.ParseStatement(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": rows})
}

func isTextualMIME(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/csv":
		return true
	}
	return false
}

// Report generates a financial-advice report
// @Summary     Generate a financial report
// @Description Generate a structured financial-advice report over the user's recent activity
// @Tags        assistant
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} gemini.FinancialAdvice "Financial advice"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     429 {object} ErrorResponse "Model rate limited"
// @Failure     502 {object} ErrorResponse "Model call failed"
// @Failure     503 {object} ErrorResponse "Assistant not configured"
// @Router      /assistant/report [post]
func (h *AssistantHandler) Report(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !h.available(c) {
		return
	}

	userContext, err := h.assistantService.BuildUserContext(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	advice, err := h.model.Report(c.Request.Context(), userContext)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": advice})
}
