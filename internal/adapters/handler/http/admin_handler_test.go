package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

func (app *testApp) adminToken(t *testing.T) string {
	t.Helper()
	token, err := app.auth.IssueToken(context.Background(), "admin", time.Hour)
	require.NoError(t, err)
	return token
}

func (app *testApp) admin(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+app.adminToken(t))
	req.Header.Set("Content-Type", "application/json")
	return app.do(t, req)
}

func TestAdminAPI_RequiresToken(t *testing.T) {
	app := setupTestApp(t, 0)

	rec := app.get(t, "/admin/api/questions")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/admin/api/questions", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, app.do(t, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/api/questions", nil)
	req.Header.Set("Authorization", "Basic YWRtaW46YWRtaW4=")
	assert.Equal(t, http.StatusUnauthorized, app.do(t, req).Code)
}

func TestAdminAPI_QuestionLifecycle(t *testing.T) {
	app := setupTestApp(t, 0)
	future := testNow.Add(48 * time.Hour)

	rec := app.admin(t, http.MethodPost, "/admin/api/questions", createQuestionRequest{
		Text:    "Who is the best director?",
		PubDate: &future,
		Choices: []string{"Freddy", ""},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Question
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Len(t, created.Choices, 1)
	id := created.ID.String()

	rec = app.admin(t, http.MethodPost, "/admin/api/questions/"+id+"/choices", addChoiceRequest{Text: "Nico"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.admin(t, http.MethodGet, "/admin/api/questions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary ports.QuestionSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.False(t, summary.WasPublishedRecently)
	assert.Len(t, summary.Choices, 2)

	// the admin sees future questions the public pages hide
	assert.Equal(t, http.StatusNotFound, app.get(t, "/polls/"+id+"/").Code)

	rec = app.admin(t, http.MethodDelete, "/admin/api/questions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.admin(t, http.MethodDelete, "/admin/api/questions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminAPI_List(t *testing.T) {
	app := setupTestApp(t, 0)
	app.createQuestion(t, "recent question", 0)
	app.createQuestion(t, "old question", -3)
	app.createQuestion(t, "future question", 2)

	rec := app.admin(t, http.MethodGet, "/admin/api/questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []ports.QuestionSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summaries))
	require.Len(t, summaries, 3)
	assert.Equal(t, "future question", summaries[0].Text)
	assert.False(t, summaries[0].WasPublishedRecently)
	assert.Equal(t, "recent question", summaries[1].Text)
	assert.True(t, summaries[1].WasPublishedRecently)
	assert.False(t, summaries[2].WasPublishedRecently)

	rec = app.admin(t, http.MethodGet, "/admin/api/questions?q=OLD", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "old question", summaries[0].Text)

	rec = app.admin(t, http.MethodGet, "/admin/api/questions?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summaries))
	assert.Empty(t, summaries)

	assert.Equal(t, http.StatusBadRequest, app.admin(t, http.MethodGet, "/admin/api/questions?page=zero", nil).Code)
}

func TestAdminAPI_Validation(t *testing.T) {
	app := setupTestApp(t, 0)

	rec := app.admin(t, http.MethodPost, "/admin/api/questions", createQuestionRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/questions", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+app.adminToken(t))
	assert.Equal(t, http.StatusBadRequest, app.do(t, req).Code)

	rec = app.admin(t, http.MethodPost, "/admin/api/questions/42/choices", addChoiceRequest{Text: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.admin(t, http.MethodGet, "/admin/api/questions/6f1f0a0e-3b7e-4d59-8d38-9a0c1f0f7d11", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminFromContext(t *testing.T) {
	app := setupTestApp(t, 0)
	auth := NewAuthHandler(app.auth)

	_, ok := AdminFromContext(context.Background())
	assert.False(t, ok)

	var subject string
	protected := auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminFromContext(r.Context())
		require.True(t, ok)
		subject = claims.Subject
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+app.adminToken(t))
	protected.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "admin", subject)
}

func TestAdminHandler_LogsSubject(t *testing.T) {
	app := setupTestApp(t, 0)
	auth := NewAuthHandler(app.auth)
	admin := NewAdminHandler(app.questions)

	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	body, err := json.Marshal(createQuestionRequest{Text: "Logged?", Choices: []string{"Yes"}})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/api/questions", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+app.adminToken(t))
	req = req.WithContext(logger.WithContext(req.Context()))

	rec := httptest.NewRecorder()
	auth.RequireAdmin(http.HandlerFunc(admin.CreateQuestion)).ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "question created", entry["message"])
	assert.Equal(t, "admin", entry["admin"])
	assert.NotEmpty(t, entry["question_id"])
}
