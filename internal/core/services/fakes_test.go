package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/premios/internal/core/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// memoryStore implements both repositories over maps.
type memoryStore struct {
	mu        sync.Mutex
	questions []*domain.Question
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (m *memoryStore) Save(ctx context.Context, q *domain.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *q
	cp.Choices = append([]domain.Choice(nil), q.Choices...)
	m.questions = append(m.questions, &cp)
	return nil
}

func (m *memoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.questions {
		if q.ID == id {
			cp := *q
			cp.Choices = append([]domain.Choice(nil), q.Choices...)
			return &cp, nil
		}
	}
	return nil, domain.ErrQuestionNotFound
}

func (m *memoryStore) ListPublished(ctx context.Context, now time.Time, limit int) ([]domain.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Question
	for _, q := range m.questions {
		if !q.PubDate.After(now) {
			out = append(out, *q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) List(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	return m.Search(ctx, limit, offset, "")
}

func (m *memoryStore) Search(ctx context.Context, limit, offset int, query string) ([]domain.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Question
	for _, q := range m.questions {
		if strings.Contains(strings.ToLower(q.Text), strings.ToLower(query)) {
			out = append(out, *q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, q := range m.questions {
		if q.ID == id {
			m.questions = append(m.questions[:i], m.questions[i+1:]...)
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}

type memoryChoices struct {
	store *memoryStore
}

func (c memoryChoices) Save(ctx context.Context, choice *domain.Choice) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, q := range c.store.questions {
		if q.ID == choice.QuestionID {
			q.Choices = append(q.Choices, *choice)
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}

func (c memoryChoices) IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, q := range c.store.questions {
		if q.ID != questionID {
			continue
		}
		for i := range q.Choices {
			if q.Choices[i].ID == choiceID {
				q.Choices[i].Votes++
				return nil
			}
		}
	}
	return domain.ErrInvalidChoice
}
