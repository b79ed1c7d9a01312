package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/premios/internal/core/domain"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryQuestion := `
		INSERT INTO questions (id, question_text, pub_date, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryQuestion, question.ID, question.Text, question.PubDate, question.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, question_id, choice_text, votes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range question.Choices {
		_, err = stmt.ExecContext(ctx, c.ID, c.QuestionID, c.Text, c.Votes, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date, created_at
		FROM questions
		WHERE id = $1
	`

	var q domain.Question
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.Text, &q.PubDate, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	choices, err := r.fetchChoices(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.Choices = choices

	return &q, nil
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date, created_at
		FROM questions
		WHERE pub_date <= $1
		ORDER BY pub_date DESC, created_at ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *questionRepository) List(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date, created_at
		FROM questions
		ORDER BY pub_date DESC, created_at ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *questionRepository) Search(ctx context.Context, limit, offset int, q string) ([]domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date, created_at
		FROM questions
		WHERE question_text ILIKE $1
		ORDER BY pub_date DESC, created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, "%"+q+"%", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) fetchChoices(ctx context.Context, questionID uuid.UUID) ([]domain.Choice, error) {
	query := `
		SELECT id, question_id, choice_text, votes, created_at
		FROM choices
		WHERE question_id = $1
		ORDER BY created_at ASC, choice_text ASC
	`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	var choices []domain.Choice
	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}
	return choices, nil
}

func scanQuestions(rows *sql.Rows) ([]domain.Question, error) {
	questions := []domain.Question{}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.PubDate, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}
