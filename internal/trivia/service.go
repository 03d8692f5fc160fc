package trivia

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// QuestionRepository is the question table access the service relies on.
type QuestionRepository interface {
	List(ctx context.Context) ([]sqlcgen.Question, error)
	ListByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error)
	Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
	Delete(ctx context.Context, id int32) (sqlcgen.Question, bool, error)
}

// CategoryRepository reads the seeded categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]sqlcgen.Category, error)
}

// CategoryCache stores the category list (implemented by the Redis-backed Cache).
// Get returns nil, nil on a miss.
type CategoryCache interface {
	Get(ctx context.Context) (Categories, error)
	Set(ctx context.Context, categories Categories) error
}

// Publisher fans question bank changes out to live clients.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Observer receives counters for quiz draws and question mutations.
type Observer interface {
	QuizDraw(outcome string)
	QuestionMutation(op string)
}

// Draw outcomes reported to the Observer.
const (
	DrawServed    = "served"
	DrawExhausted = "exhausted"
)

type ServiceOptions struct {
	PageSize int
	// Pick overrides the random index source used by quiz draws.
	Pick     func(n int) int
	Cache    CategoryCache
	Events   Publisher
	Observer Observer
}

// Service composes the question store with pagination, search and quiz draws.
type Service struct {
	questions  QuestionRepository
	categories CategoryRepository
	cache      CategoryCache
	events     Publisher
	observer   Observer
	pageSize   int
	pick       func(n int) int
	logger     zerolog.Logger
}

func NewService(questions QuestionRepository, categories CategoryRepository, opts ServiceOptions, logger zerolog.Logger) *Service {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		questions:  questions,
		categories: categories,
		cache:      opts.Cache,
		events:     opts.Events,
		observer:   opts.Observer,
		pageSize:   pageSize,
		pick:       opts.Pick,
		logger:     logger.With().Str("component", "trivia_service").Logger(),
	}
}

// ListCategories returns every category. An empty table is ErrNotFound.
func (s *Service) ListCategories(ctx context.Context) (Categories, error) {
	cats, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, ErrNotFound
	}
	return cats, nil
}

// ListQuestions returns one page of questions with the category maps the
// listing screen renders. Total counts the questions on this page.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	rows, err := s.questions.List(ctx)
	if err != nil {
		return QuestionPage{}, err
	}
	cats, err := s.loadCategories(ctx)
	if err != nil {
		return QuestionPage{}, err
	}

	window, ok := Paginate(questionsFromRows(rows), page, s.pageSize)
	if !ok {
		return QuestionPage{}, ErrNotFound
	}

	return QuestionPage{
		Questions:         window,
		Total:             len(window),
		CurrentCategories: CategoriesPresent(window, cats),
		Categories:        cats.Map(),
	}, nil
}

// DeleteQuestion removes a question and returns what was deleted.
func (s *Service) DeleteQuestion(ctx context.Context, id int) (Question, error) {
	if !fitsInt32(id) {
		return Question{}, ErrNotFound
	}
	row, ok, err := s.questions.Delete(ctx, int32(id))
	if err != nil {
		return Question{}, err
	}
	if !ok {
		return Question{}, ErrNotFound
	}

	deleted := questionFromRow(row)
	s.observeMutation("delete")
	s.publish(ctx, Event{Type: EventQuestionDeleted, Question: deleted})
	return deleted, nil
}

// CreateQuestion validates and stores a new question. Invalid content,
// including a category id with no Category behind it, wraps ErrUnprocessable
// and persists nothing.
func (s *Service) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (Question, error) {
	if err := req.Validate(); err != nil {
		return Question{}, err
	}

	cats, err := s.loadCategories(ctx)
	if err != nil {
		return Question{}, err
	}
	if _, ok := cats.Lookup(req.Category.Value); !ok {
		return Question{}, &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %d", req.Category.Value)}
	}

	row, err := s.questions.Insert(ctx, sqlcgen.InsertQuestionParams{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   int32(req.Category.Value),
		Difficulty: int32(req.Difficulty.Value),
	})
	if err != nil {
		return Question{}, err
	}

	created := questionFromRow(row)
	s.observeMutation("create")
	s.publish(ctx, Event{Type: EventQuestionCreated, Question: created})
	return created, nil
}

// SearchQuestions matches term against question text, ignoring case. No
// matches is ErrNotFound.
func (s *Service) SearchQuestions(ctx context.Context, term string) (SearchResult, error) {
	rows, err := s.questions.List(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	matches := Search(questionsFromRows(rows), term)
	if len(matches) == 0 {
		return SearchResult{}, ErrNotFound
	}

	cats, err := s.loadCategories(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Questions:         matches,
		CurrentCategories: CategoriesPresent(matches, cats),
	}, nil
}

// QuestionsInCategory lists one category. An unknown category is ErrNotFound;
// a known category without questions is an empty success.
func (s *Service) QuestionsInCategory(ctx context.Context, categoryID int) (CategoryQuestions, error) {
	cats, err := s.loadCategories(ctx)
	if err != nil {
		return CategoryQuestions{}, err
	}
	cat, ok := cats.Lookup(categoryID)
	if !ok {
		return CategoryQuestions{}, ErrNotFound
	}

	rows, err := s.questions.ListByCategory(ctx, int32(categoryID))
	if err != nil {
		return CategoryQuestions{}, err
	}
	return CategoryQuestions{
		Category:  cat,
		Questions: InCategory(questionsFromRows(rows), cat.ID),
	}, nil
}

// PlayQuiz draws the next quiz question. The caller tracks progress through
// filter.Previous; the server keeps no session. A category id that does not
// resolve is treated as an empty category and reports exhaustion.
func (s *Service) PlayQuiz(ctx context.Context, filter QuizFilter) (DrawResult, error) {
	var (
		rows []sqlcgen.Question
		err  error
	)
	if filter.CategoryID == 0 {
		rows, err = s.questions.List(ctx)
	} else {
		cats, catErr := s.loadCategories(ctx)
		if catErr != nil {
			return DrawResult{}, catErr
		}
		if _, ok := cats.Lookup(filter.CategoryID); !ok {
			s.logger.Info().Int("category_id", filter.CategoryID).Msg("quiz requested for unknown category")
			s.observeDraw(DrawExhausted)
			return DrawResult{Exhausted: true}, nil
		}
		rows, err = s.questions.ListByCategory(ctx, int32(filter.CategoryID))
	}
	if err != nil {
		return DrawResult{}, err
	}

	q, ok := Draw(questionsFromRows(rows), filter, s.pick)
	if !ok {
		s.observeDraw(DrawExhausted)
		return DrawResult{Exhausted: true}, nil
	}
	s.observeDraw(DrawServed)
	return DrawResult{Question: &q}, nil
}

// RefreshCategories reloads categories from Postgres into the cache.
func (s *Service) RefreshCategories(ctx context.Context) (int, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return 0, err
	}
	cats := categoriesFromRows(rows)
	if s.cache != nil && len(cats) > 0 {
		if err := s.cache.Set(ctx, cats); err != nil {
			return 0, fmt.Errorf("cache categories: %w", err)
		}
	}
	return len(cats), nil
}

func (s *Service) loadCategories(ctx context.Context) (Categories, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("category cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	cats := categoriesFromRows(rows)

	if s.cache != nil && len(cats) > 0 {
		if err := s.cache.Set(ctx, cats); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return cats, nil
}

func (s *Service) publish(ctx context.Context, evt Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn().Err(err).Str("event", evt.Type).Int("question_id", evt.Question.ID).Msg("publish question event failed")
	}
}

func (s *Service) observeDraw(outcome string) {
	if s.observer != nil {
		s.observer.QuizDraw(outcome)
	}
}

func (s *Service) observeMutation(op string) {
	if s.observer != nil {
		s.observer.QuestionMutation(op)
	}
}

func fitsInt32(n int) bool {
	return n >= -1<<31 && n <= 1<<31-1
}
