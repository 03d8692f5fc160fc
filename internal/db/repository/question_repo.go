package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type questionStore interface {
	ListQuestions(ctx context.Context) ([]sqlcgen.Question, error)
	ListQuestionsByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error)
	InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
	DeleteQuestion(ctx context.Context, id int32) (sqlcgen.Question, error)
}

// QuestionRepository wraps sqlc queries for the questions table.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// List returns every question in insertion order.
func (r *QuestionRepository) List(ctx context.Context) ([]sqlcgen.Question, error) {
	rows, err := r.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return rows, nil
}

// ListByCategory returns the questions tagged with category, in insertion order.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error) {
	rows, err := r.store.ListQuestionsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list questions by category %d: %w", category, err)
	}
	return rows, nil
}

// Insert stores a new question and returns it with its assigned id.
func (r *QuestionRepository) Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error) {
	row, err := r.store.InsertQuestion(ctx, params)
	if err != nil {
		return sqlcgen.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return row, nil
}

// Delete removes a question by id. The boolean is false when no row matched.
func (r *QuestionRepository) Delete(ctx context.Context, id int32) (sqlcgen.Question, bool, error) {
	row, err := r.store.DeleteQuestion(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlcgen.Question{}, false, nil
	}
	if err != nil {
		return sqlcgen.Question{}, false, fmt.Errorf("delete question %d: %w", id, err)
	}
	return row, true, nil
}
