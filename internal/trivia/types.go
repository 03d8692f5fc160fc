package trivia

import (
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// DefaultPageSize is the number of questions served per page.
const DefaultPageSize = 10

// Question is the formatted question payload delivered to clients.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Category is a read-only question grouping such as "Geography".
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Categories is an id-ordered category list.
type Categories []Category

// Lookup resolves a category id. Questions may reference ids that were never
// seeded, so a miss is reported through ok rather than an error.
func (c Categories) Lookup(id int) (Category, bool) {
	for _, cat := range c {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Map returns the id -> type form used in responses.
func (c Categories) Map() map[int]string {
	out := make(map[int]string, len(c))
	for _, cat := range c {
		out[cat.ID] = cat.Type
	}
	return out
}

// QuizFilter narrows a quiz draw. CategoryID 0 means any category.
type QuizFilter struct {
	CategoryID int
	Previous   []int
}

// DrawResult is the outcome of a quiz draw. Exhausted is a normal end of quiz,
// in which case Question is nil.
type DrawResult struct {
	Question  *Question
	Exhausted bool
}

// QuestionPage is one page of the question listing.
type QuestionPage struct {
	Questions         []Question
	Total             int
	CurrentCategories map[int]string
	Categories        map[int]string
}

// SearchResult holds the questions matching a search term.
type SearchResult struct {
	Questions         []Question
	CurrentCategories map[int]string
}

// CategoryQuestions is the listing for a single category.
type CategoryQuestions struct {
	Category  Category
	Questions []Question
}

func questionFromRow(row sqlcgen.Question) Question {
	return Question{
		ID:         int(row.ID),
		Question:   row.Question,
		Answer:     row.Answer,
		Category:   int(row.Category),
		Difficulty: int(row.Difficulty),
	}
}

func questionsFromRows(rows []sqlcgen.Question) []Question {
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, questionFromRow(row))
	}
	return out
}

func categoriesFromRows(rows []sqlcgen.Category) Categories {
	out := make(Categories, 0, len(rows))
	for _, row := range rows {
		out = append(out, Category{ID: int(row.ID), Type: row.Type})
	}
	return out
}
