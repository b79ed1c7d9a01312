package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

// QuestionHandler serves the public JSON API. It applies the same
// visibility rules as the HTML pages.
type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		service: service,
	}
}

type choiceResponse struct {
	ID    uuid.UUID `json:"id"`
	Text  string    `json:"text"`
	Votes *int64    `json:"votes,omitempty"`
}

type questionResponse struct {
	ID         uuid.UUID        `json:"id"`
	Text       string           `json:"text"`
	PubDate    time.Time        `json:"pub_date"`
	Choices    []choiceResponse `json:"choices"`
	TotalVotes *int64           `json:"total_votes,omitempty"`
}

func newQuestionResponse(q domain.Question, withVotes bool) questionResponse {
	resp := questionResponse{
		ID:      q.ID,
		Text:    q.Text,
		PubDate: q.PubDate,
		Choices: make([]choiceResponse, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		choice := choiceResponse{ID: c.ID, Text: c.Text}
		if withVotes {
			votes := c.Votes
			choice.Votes = &votes
		}
		resp.Choices = append(resp.Choices, choice)
	}
	if withVotes {
		total := q.TotalVotes()
		resp.TotalVotes = &total
	}
	return resp
}

func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Latest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, newQuestionResponse(q, false))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	h.getQuestion(w, r, false)
}

func (h *QuestionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	h.getQuestion(w, r, true)
}

func (h *QuestionHandler) getQuestion(w http.ResponseWriter, r *http.Request, withVotes bool) {
	question, err := h.service.GetVisible(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newQuestionResponse(*question, withVotes))
}
