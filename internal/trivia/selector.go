package trivia

import "math/rand/v2"

// Eligible returns the questions a quiz may still serve: those in the filter's
// category (any category when CategoryID is 0) whose id is not in Previous.
func Eligible(questions []Question, filter QuizFilter) []Question {
	seen := make(map[int]struct{}, len(filter.Previous))
	for _, id := range filter.Previous {
		seen[id] = struct{}{}
	}

	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if filter.CategoryID != 0 && q.Category != filter.CategoryID {
			continue
		}
		if _, ok := seen[q.ID]; ok {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Draw picks one eligible question uniformly at random. ok is false once every
// eligible question has been served. pick returns an index in [0, n); nil uses
// math/rand/v2.
func Draw(questions []Question, filter QuizFilter, pick func(n int) int) (Question, bool) {
	eligible := Eligible(questions, filter)
	if len(eligible) == 0 {
		return Question{}, false
	}
	if pick == nil {
		pick = rand.IntN
	}
	return eligible[pick(len(eligible))], true
}
