package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
	"github.com/vncsmyrnk/premios/internal/log"
	"github.com/vncsmyrnk/premios/internal/metrics"
)

const noChoiceMessage = "You didn't select a choice."

type VoteHandler struct {
	questions ports.QuestionService
	votes     ports.VoteService
}

func NewVoteHandler(questions ports.QuestionService, votes ports.VoteService) *VoteHandler {
	return &VoteHandler{
		questions: questions,
		votes:     votes,
	}
}

// Vote records the selected choice and redirects to the results page. A
// missing or foreign choice re-renders the detail page with an error.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	input := ports.VoteInput{
		QuestionID: questionID,
		ChoiceID:   r.PostFormValue("choice"),
	}

	err := h.votes.Vote(r.Context(), input)
	switch {
	case err == nil:
		metrics.RecordVote(metrics.VoteAccepted)
		zerolog.Ctx(r.Context()).Debug().
			Str(log.FieldQuestionID, input.QuestionID).
			Str(log.FieldChoiceID, input.ChoiceID).
			Msg("vote recorded")
		http.Redirect(w, r, "/polls/"+questionID+"/results/", http.StatusSeeOther)

	case errors.Is(err, domain.ErrNoChoiceSelected), errors.Is(err, domain.ErrInvalidChoice):
		metrics.RecordVote(metrics.VoteNoChoice)
		question, qerr := h.questions.GetVisible(r.Context(), questionID)
		if qerr != nil {
			pageError(w, r, qerr)
			return
		}
		renderPage(w, r, http.StatusBadRequest, pageDetail, questionPage{
			Question:     question,
			ErrorMessage: noChoiceMessage,
		})

	case errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrInvalidQuestionID):
		metrics.RecordVote(metrics.VoteNotFound)
		pageError(w, r, err)

	default:
		metrics.RecordVote(metrics.VoteError)
		pageError(w, r, err)
	}
}
