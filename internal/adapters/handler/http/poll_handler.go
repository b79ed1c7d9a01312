package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

// PollHandler serves the HTML pages.
type PollHandler struct {
	service ports.QuestionService
}

func NewPollHandler(service ports.QuestionService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

func (h *PollHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Latest(r.Context())
	if err != nil {
		pageError(w, r, err)
		return
	}

	renderPage(w, r, http.StatusOK, pageIndex, indexPage{Questions: questions})
}

func (h *PollHandler) Detail(w http.ResponseWriter, r *http.Request) {
	h.showQuestion(w, r, pageDetail)
}

func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	h.showQuestion(w, r, pageResults)
}

func (h *PollHandler) showQuestion(w http.ResponseWriter, r *http.Request, page string) {
	question, err := h.service.GetVisible(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pageError(w, r, err)
		return
	}

	renderPage(w, r, http.StatusOK, page, questionPage{Question: question})
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := render(w, status, page, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("failed to render page")
		http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
	}
}

// pageError answers 404 for unknown, malformed or unpublished questions.
func pageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrQuestionNotFound) || errors.Is(err, domain.ErrInvalidQuestionID) {
		http.Error(w, domain.ErrQuestionNotFound.Error(), http.StatusNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
}
