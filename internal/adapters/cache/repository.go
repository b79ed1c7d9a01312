package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
	"github.com/vncsmyrnk/premios/internal/metrics"
)

func questionKey(id uuid.UUID) string {
	return "question:" + id.String()
}

// questionRepository caches GetByID results. Visibility is decided by the
// caller after the lookup, so a cached question never leaks a future one.
type questionRepository struct {
	ports.QuestionRepository
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewQuestionRepository wraps next with a read-through cache for single
// question lookups. Listings always go to next. A non-positive ttl only
// invalidates, it never stores.
func NewQuestionRepository(next ports.QuestionRepository, cache Cache, ttl time.Duration, logger zerolog.Logger) ports.QuestionRepository {
	return &questionRepository{
		QuestionRepository: next,
		cache:              cache,
		ttl:                ttl,
		logger:             logger,
	}
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	key := questionKey(id)
	data, ok := r.cache.Get(ctx, key)
	metrics.RecordCacheLookup(ok)
	if ok {
		var q domain.Question
		err := json.Unmarshal(data, &q)
		if err == nil {
			return &q, nil
		}
		r.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		r.cache.Delete(ctx, key)
	}

	q, err := r.QuestionRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.ttl <= 0 {
		return q, nil
	}
	if encoded, err := json.Marshal(q); err == nil {
		r.cache.Set(ctx, key, encoded, r.ttl)
	}
	return q, nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.QuestionRepository.Delete(ctx, id)
	r.cache.Delete(ctx, questionKey(id))
	return err
}

type choiceRepository struct {
	next  ports.ChoiceRepository
	cache Cache
}

// NewChoiceRepository invalidates the cached question whenever one of its
// choices changes.
func NewChoiceRepository(next ports.ChoiceRepository, cache Cache) ports.ChoiceRepository {
	return &choiceRepository{next: next, cache: cache}
}

func (r *choiceRepository) Save(ctx context.Context, choice *domain.Choice) error {
	err := r.next.Save(ctx, choice)
	r.cache.Delete(ctx, questionKey(choice.QuestionID))
	return err
}

func (r *choiceRepository) IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) error {
	err := r.next.IncrementVotes(ctx, questionID, choiceID)
	r.cache.Delete(ctx, questionKey(questionID))
	return err
}
