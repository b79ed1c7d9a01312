package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

func TestVoteService_Vote(t *testing.T) {
	store := newMemoryStore()
	choices := memoryChoices{store: store}
	questions := NewQuestionService(store, choices, fixedClock{now: testNow})
	votes := NewVoteService(questions, choices)

	q := createQuestion(t, questions, "past", -1)
	ctx := context.Background()

	err := votes.Vote(ctx, ports.VoteInput{QuestionID: q.ID.String(), ChoiceID: q.Choices[0].ID.String()})
	require.NoError(t, err)
	err = votes.Vote(ctx, ports.VoteInput{QuestionID: q.ID.String(), ChoiceID: q.Choices[0].ID.String()})
	require.NoError(t, err)

	got, err := questions.GetVisible(ctx, q.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Choices[0].Votes)
	assert.Equal(t, int64(0), got.Choices[1].Votes)
}

func TestVoteService_VoteErrors(t *testing.T) {
	store := newMemoryStore()
	choices := memoryChoices{store: store}
	questions := NewQuestionService(store, choices, fixedClock{now: testNow})
	votes := NewVoteService(questions, choices)

	past := createQuestion(t, questions, "past", -1)
	future := createQuestion(t, questions, "future", 1)
	other := createQuestion(t, questions, "other", -2)

	tests := []struct {
		name  string
		input ports.VoteInput
		want  error
	}{
		{"no choice selected", ports.VoteInput{QuestionID: past.ID.String()}, domain.ErrNoChoiceSelected},
		{"malformed choice", ports.VoteInput{QuestionID: past.ID.String(), ChoiceID: "abc"}, domain.ErrInvalidChoice},
		{"choice of another question", ports.VoteInput{QuestionID: past.ID.String(), ChoiceID: other.Choices[0].ID.String()}, domain.ErrInvalidChoice},
		{"future question", ports.VoteInput{QuestionID: future.ID.String(), ChoiceID: future.Choices[0].ID.String()}, domain.ErrQuestionNotFound},
		{"unknown question", ports.VoteInput{QuestionID: uuid.NewString(), ChoiceID: past.Choices[0].ID.String()}, domain.ErrQuestionNotFound},
		{"malformed question", ports.VoteInput{QuestionID: "x"}, domain.ErrInvalidQuestionID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := votes.Vote(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
