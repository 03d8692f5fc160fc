package trivia

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type memoryQuestions struct {
	mu     sync.Mutex
	rows   []sqlcgen.Question
	nextID int32
	err    error
}

func newMemoryQuestions(rows ...sqlcgen.Question) *memoryQuestions {
	m := &memoryQuestions{nextID: 1}
	for _, row := range rows {
		m.rows = append(m.rows, row)
		if row.ID >= m.nextID {
			m.nextID = row.ID + 1
		}
	}
	return m
}

func (m *memoryQuestions) List(_ context.Context) ([]sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]sqlcgen.Question(nil), m.rows...), nil
}

func (m *memoryQuestions) ListByCategory(_ context.Context, category int32) ([]sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]sqlcgen.Question, 0)
	for _, row := range m.rows {
		if row.Category == category {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memoryQuestions) Insert(_ context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return sqlcgen.Question{}, m.err
	}
	row := sqlcgen.Question{
		ID:         m.nextID,
		Question:   params.Question,
		Answer:     params.Answer,
		Category:   params.Category,
		Difficulty: params.Difficulty,
	}
	m.nextID++
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memoryQuestions) Delete(_ context.Context, id int32) (sqlcgen.Question, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return sqlcgen.Question{}, false, m.err
	}
	for i, row := range m.rows {
		if row.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return row, true, nil
		}
	}
	return sqlcgen.Question{}, false, nil
}

func (m *memoryQuestions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memoryCategories struct {
	rows  []sqlcgen.Category
	err   error
	calls int
}

func (m *memoryCategories) List(_ context.Context) ([]sqlcgen.Category, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

type memoryCache struct {
	cats Categories
	sets int
}

func (c *memoryCache) Get(_ context.Context) (Categories, error) {
	return c.cats, nil
}

func (c *memoryCache) Set(_ context.Context, cats Categories) error {
	c.cats = cats
	c.sets++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

type countingObserver struct {
	draws     map[string]int
	mutations map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{draws: map[string]int{}, mutations: map[string]int{}}
}

func (o *countingObserver) QuizDraw(outcome string)    { o.draws[outcome]++ }
func (o *countingObserver) QuestionMutation(op string) { o.mutations[op]++ }

func standardCategories() *memoryCategories {
	return &memoryCategories{rows: []sqlcgen.Category{
		{ID: 1, Type: "Science"},
		{ID: 2, Type: "Art"},
		{ID: 3, Type: "Geography"},
		{ID: 4, Type: "History"},
		{ID: 5, Type: "Entertainment"},
		{ID: 6, Type: "Sports"},
	}}
}

// seedRows builds n questions with ids starting at first, all in category.
func seedRows(first, n int, category int32) []sqlcgen.Question {
	rows := make([]sqlcgen.Question, 0, n)
	for i := 0; i < n; i++ {
		id := int32(first + i)
		rows = append(rows, sqlcgen.Question{
			ID:         id,
			Question:   fmt.Sprintf("Question number %d?", id),
			Answer:     fmt.Sprintf("Answer %d", id),
			Category:   category,
			Difficulty: 1 + id%5,
		})
	}
	return rows
}

func newTestService(questions *memoryQuestions, categories *memoryCategories, opts ServiceOptions) *Service {
	return NewService(questions, categories, opts, zerolog.Nop())
}

func questionIDs(questions []Question) []int {
	ids := make([]int, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids
}
