package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

const (
	// LatestLimit is how many questions the index shows.
	LatestLimit = 5
	// AdminPageSize is the page size of the admin listing.
	AdminPageSize = 10
)

type questionService struct {
	questions ports.QuestionRepository
	choices   ports.ChoiceRepository
	clock     ports.Clock
}

func NewQuestionService(questions ports.QuestionRepository, choices ports.ChoiceRepository, clock ports.Clock) ports.QuestionService {
	return &questionService{
		questions: questions,
		choices:   choices,
		clock:     clock,
	}
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	now := s.clock.Now()
	pubDate := now
	if input.PubDate != nil {
		if input.PubDate.IsZero() {
			return nil, domain.ErrInvalidTime
		}
		pubDate = *input.PubDate
	}

	question := &domain.Question{
		ID:        uuid.New(),
		Text:      text,
		PubDate:   pubDate.UTC(),
		CreatedAt: now,
	}

	for _, choiceText := range input.Choices {
		choiceText = strings.TrimSpace(choiceText)
		if choiceText == "" {
			continue
		}
		question.Choices = append(question.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: question.ID,
			Text:       choiceText,
			CreatedAt:  now,
		})
	}

	if err := s.questions.Save(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

func (s *questionService) AddChoice(ctx context.Context, questionID string, text string) (*domain.Choice, error) {
	id, err := parseQuestionID(questionID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	if _, err := s.questions.GetByID(ctx, id); err != nil {
		return nil, err
	}

	choice := &domain.Choice{
		ID:         uuid.New(),
		QuestionID: id,
		Text:       text,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.choices.Save(ctx, choice); err != nil {
		return nil, err
	}

	return choice, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return err
	}
	return s.questions.Delete(ctx, questionID)
}

func (s *questionService) Latest(ctx context.Context) ([]domain.Question, error) {
	now := s.clock.Now()

	candidates, err := s.questions.ListPublished(ctx, now, LatestLimit)
	if err != nil {
		return nil, err
	}

	latest, err := domain.VisibleQuestions(candidates, now)
	if err != nil {
		return nil, fmt.Errorf("failed to filter questions: %w", err)
	}
	if len(latest) > LatestLimit {
		latest = latest[:LatestLimit]
	}

	return latest, nil
}

func (s *questionService) GetVisible(ctx context.Context, id string) (*domain.Question, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	visible, err := question.IsVisible(s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to check question visibility: %w", err)
	}
	if !visible {
		return nil, domain.ErrQuestionNotFound
	}

	return question, nil
}

func (s *questionService) AdminList(ctx context.Context, input ports.ListQuestionsInput) ([]ports.QuestionSummary, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * AdminPageSize

	var (
		questions []domain.Question
		err       error
	)
	if q := strings.TrimSpace(input.Query); q != "" {
		questions, err = s.questions.Search(ctx, AdminPageSize, offset, q)
	} else {
		questions, err = s.questions.List(ctx, AdminPageSize, offset)
	}
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	summaries := make([]ports.QuestionSummary, 0, len(questions))
	for _, q := range questions {
		summary, err := summarize(q, now)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *questionService) AdminGet(ctx context.Context, id string) (*ports.QuestionSummary, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	summary, err := summarize(*question, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func summarize(q domain.Question, now time.Time) (ports.QuestionSummary, error) {
	recent, err := q.WasPublishedRecently(now)
	if err != nil {
		return ports.QuestionSummary{}, fmt.Errorf("failed to summarize question %s: %w", q.ID, err)
	}
	return ports.QuestionSummary{Question: q, WasPublishedRecently: recent}, nil
}

func parseQuestionID(id string) (uuid.UUID, error) {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidQuestionID
	}
	return questionID, nil
}
