package sqlite

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

const questionColumns = `id, question_text, pub_date, created_at`

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{db: db}
}

// Timestamps are stored in UTC so that text comparison orders them.
func (r *questionRepository) Save(ctx context.Context, q *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO questions (id, question_text, pub_date, created_at) VALUES (?, ?, ?, ?)`,
		q.ID, q.Text, q.PubDate.UTC(), q.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	for _, c := range q.Choices {
		if err := insertChoice(ctx, tx, &c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	var q domain.Question
	err := r.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id).
		Scan(&q.ID, &q.Text, &q.PubDate, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question_id, choice_text, votes, created_at FROM choices WHERE question_id = ? ORDER BY created_at, rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		q.Choices = append(q.Choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}

	return &q, nil
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]domain.Question, error) {
	return r.query(ctx, `SELECT `+questionColumns+` FROM questions
		WHERE pub_date <= ?
		ORDER BY pub_date DESC, rowid ASC
		LIMIT ?`, now.UTC(), limit)
}

func (r *questionRepository) List(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	return r.query(ctx, `SELECT `+questionColumns+` FROM questions
		ORDER BY pub_date DESC, rowid ASC
		LIMIT ? OFFSET ?`, limit, offset)
}

// Search matches case-insensitively; SQLite LIKE folds ASCII only.
func (r *questionRepository) Search(ctx context.Context, limit, offset int, q string) ([]domain.Question, error) {
	return r.query(ctx, `SELECT `+questionColumns+` FROM questions
		WHERE question_text LIKE ?
		ORDER BY pub_date DESC, rowid ASC
		LIMIT ? OFFSET ?`, "%"+q+"%", limit, offset)
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
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

func (r *questionRepository) query(ctx context.Context, query string, args ...any) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

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
