package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

type choiceRepository struct {
	db *sql.DB
}

func NewChoiceRepository(db *sql.DB) ports.ChoiceRepository {
	return &choiceRepository{
		db: db,
	}
}

func (r *choiceRepository) Save(ctx context.Context, c *domain.Choice) error {
	query := `
		INSERT INTO choices (id, question_id, choice_text, votes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.QuestionID, c.Text, c.Votes, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save choice: %w", err)
	}
	return nil
}

func (r *choiceRepository) IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) error {
	query := `UPDATE choices SET votes = votes + 1 WHERE id = $1 AND question_id = $2`
	res, err := r.db.ExecContext(ctx, query, choiceID, questionID)
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
