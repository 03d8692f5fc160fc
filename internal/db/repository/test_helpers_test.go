package repository

import sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"

func questionRow(id int32, category int32) sqlcgen.Question {
	return sqlcgen.Question{
		ID:         id,
		Question:   "Question?",
		Answer:     "Answer",
		Category:   category,
		Difficulty: 2,
	}
}
