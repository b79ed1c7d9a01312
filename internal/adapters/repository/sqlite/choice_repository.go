package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type choiceRepository struct {
	db *sql.DB
}

func NewChoiceRepository(db *sql.DB) ports.ChoiceRepository {
	return &choiceRepository{db: db}
}

func (r *choiceRepository) Save(ctx context.Context, c *domain.Choice) error {
	return insertChoice(ctx, r.db, c)
}

func (r *choiceRepository) IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE choices SET votes = votes + 1 WHERE id = ? AND question_id = ?`, choiceID, questionID)
	if err != nil {
		return fmt.Errorf("failed to increment votes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to increment votes: %w", err)
	}
	if n == 0 {
		return domain.ErrInvalidChoice
	}
	return nil
}

func insertChoice(ctx context.Context, ex execer, c *domain.Choice) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO choices (id, question_id, choice_text, votes, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.QuestionID, c.Text, c.Votes, c.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert choice: %w", err)
	}
	return nil
}
