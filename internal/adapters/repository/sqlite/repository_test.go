package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/premios/internal/core/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "polls.sqlite"), DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newQuestion(text string, pub time.Time, choices ...string) *domain.Question {
	created := time.Now().UTC()
	q := &domain.Question{ID: uuid.New(), Text: text, PubDate: pub, CreatedAt: created}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, Text: c, CreatedAt: created})
	}
	return q
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, CreateSchema(context.Background(), db))
}

func TestQuestionRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	loc := time.FixedZone("BRT", -3*60*60)

	future := newQuestion("future question", now.AddDate(0, 0, 30), "a", "b")
	atNow := newQuestion("published now", now.In(loc), "a")
	past1 := newQuestion("Past question 1", now.AddDate(0, 0, -30), "a", "b")
	past2 := newQuestion("past question 2", now.AddDate(0, 0, -40))
	justFuture := newQuestion("one nanosecond ahead", now.Add(time.Nanosecond))
	for _, q := range []*domain.Question{future, past2, past1, atNow, justFuture} {
		require.NoError(t, questions.Save(ctx, q))
	}

	t.Run("GetByID", func(t *testing.T) {
		got, err := questions.GetByID(ctx, past1.ID)
		require.NoError(t, err)
		assert.Equal(t, past1.Text, got.Text)
		assert.True(t, past1.PubDate.Equal(got.PubDate))
		require.Len(t, got.Choices, 2)
		assert.Equal(t, "a", got.Choices[0].Text)
		assert.Equal(t, "b", got.Choices[1].Text)

		_, err = questions.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})

	t.Run("ListPublished", func(t *testing.T) {
		got, err := questions.ListPublished(ctx, now, 5)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, atNow.ID, got[0].ID)
		assert.Equal(t, past1.ID, got[1].ID)
		assert.Equal(t, past2.ID, got[2].ID)

		limited, err := questions.ListPublished(ctx, now, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		none, err := questions.ListPublished(ctx, now.AddDate(-1, 0, 0), 5)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("ListAndSearch", func(t *testing.T) {
		all, err := questions.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, future.ID, all[0].ID)

		page, err := questions.List(ctx, 2, 4)
		require.NoError(t, err)
		assert.Len(t, page, 1)

		found, err := questions.Search(ctx, 10, 0, "PAST")
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("IncrementVotes", func(t *testing.T) {
		require.NoError(t, choices.IncrementVotes(ctx, past1.ID, past1.Choices[0].ID))

		err := choices.IncrementVotes(ctx, future.ID, past1.Choices[0].ID)
		assert.ErrorIs(t, err, domain.ErrInvalidChoice)

		got, err := questions.GetByID(ctx, past1.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Choices[0].Votes)
		assert.Equal(t, int64(0), got.Choices[1].Votes)
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		require.NoError(t, questions.Delete(ctx, future.ID))
		assert.ErrorIs(t, questions.Delete(ctx, future.ID), domain.ErrQuestionNotFound)

		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM choices WHERE question_id = ?`, future.ID).Scan(&count))
		assert.Zero(t, count)
	})
}

func TestChoiceRepository_ConcurrentVotes(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)

	q := newQuestion("concurrent", time.Now().Add(-time.Hour), "only")
	require.NoError(t, questions.Save(ctx, q))

	const voters = 25
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- choices.IncrementVotes(ctx, q.ID, q.Choices[0].ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(voters), got.Choices[0].Votes)
}
