package importer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Source supplies external questions.
type Source interface {
	Fetch(ctx context.Context, amount int, difficulty, qType string) ([]OpenTDBQuestion, error)
}

// QuestionBank is the subset of trivia.Service the importer writes through.
type QuestionBank interface {
	ListCategories(ctx context.Context) (trivia.Categories, error)
	CreateQuestion(ctx context.Context, req trivia.CreateQuestionRequest) (trivia.Question, error)
}

// Result summarizes one import run.
type Result struct {
	Fetched  int
	Imported int
	Skipped  int
}

// Importer copies external questions into the local question bank.
type Importer struct {
	source Source
	bank   QuestionBank
	logger zerolog.Logger
}

func New(source Source, bank QuestionBank, logger zerolog.Logger) *Importer {
	return &Importer{
		source: source,
		bank:   bank,
		logger: logger.With().Str("component", "importer").Logger(),
	}
}

// Import fetches amount questions and stores the ones whose category matches a
// local category. Questions rejected by validation are skipped, not fatal.
func (i *Importer) Import(ctx context.Context, amount int, difficulty, qType string) (Result, error) {
	cats, err := i.bank.ListCategories(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load categories: %w", err)
	}

	fetched, err := i.source.Fetch(ctx, amount, difficulty, qType)
	if err != nil {
		return Result{}, fmt.Errorf("fetch questions: %w", err)
	}

	res := Result{Fetched: len(fetched)}
	for _, q := range fetched {
		cat, ok := MatchCategory(q.Category, cats)
		if !ok {
			i.logger.Debug().Str("category", q.Category).Msg("no local category; skipping")
			res.Skipped++
			continue
		}

		_, err := i.bank.CreateQuestion(ctx, trivia.CreateQuestionRequest{
			Question:   html.UnescapeString(q.Question),
			Answer:     html.UnescapeString(q.CorrectAnswer),
			Category:   trivia.FlexInt{Value: cat.ID, Valid: true},
			Difficulty: trivia.FlexInt{Value: DifficultyScore(q.Difficulty), Valid: true},
		})
		if err != nil {
			if errors.Is(err, trivia.ErrUnprocessable) {
				i.logger.Warn().Err(err).Msg("question rejected; skipping")
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("store question: %w", err)
		}
		res.Imported++
	}

	i.logger.Info().
		Int("fetched", res.Fetched).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("import finished")
	return res, nil
}

// MatchCategory maps an Open Trivia DB category name such as
// "Entertainment: Film" or "Science & Nature" onto a local category by prefix.
func MatchCategory(name string, cats trivia.Categories) (trivia.Category, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, cat := range cats {
		if strings.HasPrefix(lower, strings.ToLower(cat.Type)) {
			return cat, true
		}
	}
	return trivia.Category{}, false
}

// DifficultyScore converts easy/medium/hard onto the 1-5 scale.
func DifficultyScore(level string) int {
	switch strings.ToLower(level) {
	case "easy":
		return 1
	case "hard":
		return 5
	default:
		return 3
	}
}
