package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medilexica/internal/ai"
	"medilexica/internal/app"
	"medilexica/internal/model"
	"medilexica/internal/transport/http/middleware"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(context.Context, ai.ChatConfig, []ai.ChatMessage) (string, error) {
	return f.reply, f.err
}

type fakeSessionRepo struct {
	nextID   uint
	sessions map[uint]*model.ChatSession
	failWith error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]*model.ChatSession)}
}

func (r *fakeSessionRepo) Create(session *model.ChatSession) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.nextID++
	session.ID = r.nextID
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByID(sessionID uint) (*model.ChatSession, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	clone := *session
	return &clone, nil
}

func (r *fakeSessionRepo) ReplaceMessages(sessionID uint, messagesJSON string, updatedAt time.Time) error {
	if r.failWith != nil {
		return r.failWith
	}
	if session, ok := r.sessions[sessionID]; ok {
		session.Messages = messagesJSON
		session.UpdatedAt = updatedAt
	}
	return nil
}

func (r *fakeSessionRepo) ListByUserID(userID uint, limit int) ([]model.ChatSession, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []model.ChatSession
	for _, session := range r.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakePublisher struct {
	published []model.SessionSnapshot
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, snap model.SessionSnapshot) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, snap)
	return nil
}

type chatTestEnv struct {
	router    *gin.Engine
	repo      *fakeSessionRepo
	publisher *fakePublisher
}

func newChatTestEnv(t *testing.T, llm *fakeCompleter, userID uint) *chatTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeSessionRepo()
	publisher := &fakePublisher{}
	sessions := app.NewSessionService(repo, nil)
	answers := app.NewAnswerService(llm, ai.ChatConfig{}, nil)
	chat := NewChatHandler(answers, sessions, publisher)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})
	router.POST("/api/v1/chat/ask", chat.Ask)
	router.GET("/api/v1/chat/sessions", chat.ListSessions)
	router.GET("/api/v1/languages", chat.Languages)

	return &chatTestEnv{router: router, repo: repo, publisher: publisher}
}

func (e *chatTestEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAskAuthenticatedSavesHistory(t *testing.T) {
	llm := &fakeCompleter{reply: `{"answer":"Influenza is a viral infection."}`}
	env := newChatTestEnv(t, llm, 7)

	rec := env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"question": "What is influenza?",
		"language": "en",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AskResponse
	body := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(body.Data, &resp))
	assert.Equal(t, "Influenza is a viral infection.", resp.Answer)
	assert.True(t, resp.HistorySaved)
	assert.NotZero(t, resp.SessionID)

	saved := env.repo.sessions[resp.SessionID]
	require.NotNil(t, saved)
	msgs := saved.MessageList()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "What is influenza?", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
}

func TestAskSessionIDReusedAcrossTurns(t *testing.T) {
	llm := &fakeCompleter{reply: `{"answer":"ok"}`}
	env := newChatTestEnv(t, llm, 7)

	first := env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": "What is asthma?"})
	var firstResp AskResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, first).Data, &firstResp))

	second := env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"question":   "How is it treated?",
		"session_id": firstResp.SessionID,
		"messages": []gin.H{
			{"role": "user", "content": "What is asthma?"},
			{"role": "assistant", "content": "ok"},
		},
	})
	var secondResp AskResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, second).Data, &secondResp))

	assert.Equal(t, firstResp.SessionID, secondResp.SessionID)
	assert.Len(t, env.repo.sessions, 1)
	assert.Len(t, env.repo.sessions[firstResp.SessionID].MessageList(), 4)
}

func TestAskAnonymousSkipsPersistence(t *testing.T) {
	llm := &fakeCompleter{reply: `{"answer":"ok"}`}
	env := newChatTestEnv(t, llm, 0)

	rec := env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": "What is a cold?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.Equal(t, "ok", resp.Answer)
	assert.False(t, resp.HistorySaved)
	assert.Zero(t, resp.SessionID)
	assert.Empty(t, env.repo.sessions)
}

func TestAskSaveFailureStillAnswersAndEnqueuesRetry(t *testing.T) {
	llm := &fakeCompleter{reply: `{"answer":"ok"}`}
	env := newChatTestEnv(t, llm, 7)
	env.repo.failWith = errors.New("store unavailable")

	rec := env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": "What is a cold?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.Equal(t, "ok", resp.Answer)
	assert.False(t, resp.HistorySaved)
	assert.NotEmpty(t, resp.SaveError)

	require.Len(t, env.publisher.published, 1)
	snap := env.publisher.published[0]
	assert.Equal(t, uint(7), snap.UserID)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "What is a cold?", snap.Messages[0].Content)
}

func TestAskValidation(t *testing.T) {
	llm := &fakeCompleter{reply: `{"answer":"ok"}`}
	env := newChatTestEnv(t, llm, 7)

	rec := env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{"language": "en"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"question": "What is a cold?",
		"messages": []gin.H{{"role": "system", "content": "nope"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"question": "What is a cold?",
		"language": "xx",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskUpstreamFailureReturnsBadGateway(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("upstream timeout")}
	env := newChatTestEnv(t, llm, 7)

	rec := env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": "What is a cold?"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestListSessions(t *testing.T) {
	llm := &fakeCompleter{reply: `{"answer":"ok"}`}
	env := newChatTestEnv(t, llm, 7)

	for _, q := range []string{"What is asthma?", "What is influenza?"} {
		rec := env.do(t, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": q})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/chat/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []model.ChatSessionSummary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sessions))
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Messages)
	}
}

func TestListSessionsUnauthenticated(t *testing.T) {
	llm := &fakeCompleter{reply: `{"answer":"ok"}`}
	env := newChatTestEnv(t, llm, 0)

	rec := env.do(t, http.MethodGet, "/api/v1/chat/sessions", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLanguages(t *testing.T) {
	llm := &fakeCompleter{reply: `{"answer":"ok"}`}
	env := newChatTestEnv(t, llm, 0)

	rec := env.do(t, http.MethodGet, "/api/v1/languages", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var languages []app.Language
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &languages))
	require.NotEmpty(t, languages)
	assert.Equal(t, "en", languages[0].Code)
}
