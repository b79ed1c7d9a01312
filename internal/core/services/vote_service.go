package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

type voteService struct {
	questions ports.QuestionService
	choices   ports.ChoiceRepository
}

func NewVoteService(questions ports.QuestionService, choices ports.ChoiceRepository) ports.VoteService {
	return &voteService{
		questions: questions,
		choices:   choices,
	}
}

func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) error {
	question, err := s.questions.GetVisible(ctx, input.QuestionID)
	if err != nil {
		return err
	}

	choiceIDStr := strings.TrimSpace(input.ChoiceID)
	if choiceIDStr == "" {
		return domain.ErrNoChoiceSelected
	}
	choiceID, err := uuid.Parse(choiceIDStr)
	if err != nil {
		return domain.ErrInvalidChoice
	}

	if _, ok := question.Choice(choiceID); !ok {
		return domain.ErrInvalidChoice
	}

	return s.choices.IncrementVotes(ctx, question.ID, choiceID)
}
