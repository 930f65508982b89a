package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medilexica/internal/app"
	"medilexica/internal/model"
	"medilexica/internal/pkg/logx"
	"medilexica/internal/transport/http/response"
)

// SnapshotPublisher enqueues a conversation snapshot when the synchronous
// save failed.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap model.SessionSnapshot) error
}

type ChatHandler struct {
	answerService  *app.AnswerService
	sessionService *app.SessionService
	snapshots      SnapshotPublisher
}

type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type AskRequest struct {
	Question  string     `json:"question" binding:"required,max=2000"`
	Language  string     `json:"language" binding:"max=8"`
	SessionID uint       `json:"session_id"`
	Messages  []ChatTurn `json:"messages" binding:"dive"`
}

// AskResponse carries the answer plus the persistence outcome. The answer is
// authoritative: HistorySaved false only means the session record may lag.
type AskResponse struct {
	Answer       string `json:"answer"`
	Summary      string `json:"summary,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	SessionID    uint   `json:"session_id,omitempty"`
	HistorySaved bool   `json:"history_saved"`
	SaveError    string `json:"save_error,omitempty"`
}

func NewChatHandler(answerService *app.AnswerService, sessionService *app.SessionService, snapshots SnapshotPublisher) *ChatHandler {
	return &ChatHandler{
		answerService:  answerService,
		sessionService: sessionService,
		snapshots:      snapshots,
	}
}

// Ask answers one question turn. The route is behind optional auth:
// anonymous callers get an answer with no history persistence.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	history := make([]model.ChatMessage, 0, len(req.Messages))
	for _, t := range req.Messages {
		history = append(history, model.ChatMessage{Role: t.Role, Content: t.Content})
	}

	answer, err := h.answerService.Ask(c.Request.Context(), req.Question, req.Language, history)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrQuestionEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrLanguageUnsupported):
			response.Error(c, http.StatusBadRequest, response.CodeLanguageUnsupported, err.Error())
		case errors.Is(err, app.ErrAnswerUnavailable):
			response.Error(c, http.StatusBadGateway, response.CodeAnswerUnavailable, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ask failed")
		}
		return
	}

	resp := AskResponse{
		Answer:   answer.Text,
		Summary:  answer.Summary,
		ImageURL: answer.ImageURL,
	}

	fullList := append(history,
		model.ChatMessage{Role: model.RoleUser, Content: req.Question},
		model.ChatMessage{Role: model.RoleAssistant, Content: answer.Text},
	)

	userID, _ := getUserIDFromContext(c)
	if userID == 0 {
		// Anonymous conversations are never persisted; the answer still goes
		// out.
		response.OK(c, resp)
		return
	}

	savedID, saveErr := h.sessionService.Save(userID, fullList, req.SessionID)
	if saveErr != nil {
		logx.Errorw("session save failed, enqueueing retry", "error", saveErr, "user_id", userID)
		h.enqueueRetry(c.Request.Context(), model.SessionSnapshot{
			UserID:    userID,
			SessionID: req.SessionID,
			Messages:  fullList,
		})
		resp.SessionID = req.SessionID
		resp.SaveError = "failed to save chat history"
		response.OK(c, resp)
		return
	}

	resp.SessionID = savedID
	resp.HistorySaved = true
	response.OK(c, resp)
}

// ListSessions returns the caller's chat history, newest first.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	sessions, err := h.sessionService.List(userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotAuthenticated):
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sessions failed")
		}
		return
	}

	response.OK(c, sessions)
}

// Languages returns the fixed language list offered in the UI selector.
func (h *ChatHandler) Languages(c *gin.Context) {
	response.OK(c, app.SupportedLanguages)
}

func (h *ChatHandler) enqueueRetry(ctx context.Context, snap model.SessionSnapshot) {
	if h.snapshots == nil {
		return
	}
	if err := h.snapshots.Publish(ctx, snap); err != nil {
		logx.Errorw("enqueue save retry failed", "error", err, "user_id", snap.UserID)
	}
}
