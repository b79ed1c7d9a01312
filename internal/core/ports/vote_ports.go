package ports

import (
	"context"
)

type VoteInput struct {
	QuestionID string
	ChoiceID   string
}

type VoteService interface {
	Vote(ctx context.Context, input VoteInput) error
}
