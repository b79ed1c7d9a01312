package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/premios/internal/core/domain"
)

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	ListPublished(ctx context.Context, now time.Time, limit int) ([]domain.Question, error)
	List(ctx context.Context, limit, offset int) ([]domain.Question, error)
	Search(ctx context.Context, limit, offset int, query string) ([]domain.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChoiceRepository interface {
	Save(ctx context.Context, choice *domain.Choice) error
	// IncrementVotes adds one vote to the choice. It returns
	// domain.ErrInvalidChoice when the choice does not belong to the question.
	IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) error
}

type CreateQuestionInput struct {
	Text    string
	PubDate *time.Time
	Choices []string
}

type ListQuestionsInput struct {
	Page  int
	Query string
}

// QuestionSummary is a question as the admin listing shows it.
type QuestionSummary struct {
	domain.Question
	WasPublishedRecently bool `json:"was_published_recently"`
}

type QuestionService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	AddChoice(ctx context.Context, questionID string, text string) (*domain.Choice, error)
	Delete(ctx context.Context, id string) error
	// Latest returns the most recently published visible questions.
	Latest(ctx context.Context) ([]domain.Question, error)
	// GetVisible returns the question only if it is already published.
	GetVisible(ctx context.Context, id string) (*domain.Question, error)
	AdminList(ctx context.Context, input ListQuestionsInput) ([]QuestionSummary, error)
	AdminGet(ctx context.Context, id string) (*QuestionSummary, error)
}
