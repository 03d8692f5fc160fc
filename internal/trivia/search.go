package trivia

import "strings"

// Search returns the questions whose text contains term, ignoring case.
// An empty term matches everything.
func Search(questions []Question, term string) []Question {
	needle := strings.ToLower(term)
	out := make([]Question, 0)
	for _, q := range questions {
		if strings.Contains(strings.ToLower(q.Question), needle) {
			out = append(out, q)
		}
	}
	return out
}

// InCategory filters questions down to a single category id.
func InCategory(questions []Question, categoryID int) []Question {
	out := make([]Question, 0)
	for _, q := range questions {
		if q.Category == categoryID {
			out = append(out, q)
		}
	}
	return out
}

// CategoriesPresent maps the categories referenced by questions to their type.
// Questions pointing at an unknown category are left out of the mapping.
func CategoriesPresent(questions []Question, categories Categories) map[int]string {
	out := make(map[int]string)
	for _, q := range questions {
		if cat, ok := categories.Lookup(q.Category); ok {
			out[cat.ID] = cat.Type
		}
	}
	return out
}
