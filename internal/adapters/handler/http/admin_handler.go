package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/premios/internal/core/ports"
	"github.com/vncsmyrnk/premios/internal/metrics"
)

// AdminHandler manages questions, future ones included.
type AdminHandler struct {
	service ports.QuestionService
}

func NewAdminHandler(service ports.QuestionService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

type createQuestionRequest struct {
	Text    string     `json:"text"`
	PubDate *time.Time `json:"pub_date"`
	Choices []string   `json:"choices"`
}

type addChoiceRequest struct {
	Text string `json:"text"`
}

func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	question, err := h.service.Create(r.Context(), ports.CreateQuestionInput{
		Text:    req.Text,
		PubDate: req.PubDate,
		Choices: req.Choices,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.RecordQuestionCreated()
	zerolog.Ctx(r.Context()).Info().
		Str("admin", adminSubject(r)).
		Str("question_id", question.ID.String()).
		Msg("question created")
	writeJSON(w, r, http.StatusCreated, question)
}

func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid page"})
			return
		}
		page = n
	}

	summaries, err := h.service.AdminList(r.Context(), ports.ListQuestionsInput{
		Page:  page,
		Query: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, summaries)
}

func (h *AdminHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.AdminGet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, summary)
}

func (h *AdminHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	var req addChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	choice, err := h.service.AddChoice(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, choice)
}

func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("admin", adminSubject(r)).
		Str("question_id", id).
		Msg("question deleted")

	w.WriteHeader(http.StatusNoContent)
}

func adminSubject(r *http.Request) string {
	if claims, ok := AdminFromContext(r.Context()); ok {
		return claims.Subject
	}
	return ""
}
