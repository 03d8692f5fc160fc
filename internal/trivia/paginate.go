package trivia

// Paginate returns the 1-based page of size items. ok is false when the page
// number is not positive or the window lies past the end of the collection.
func Paginate(all []Question, page, size int) ([]Question, bool) {
	if page <= 0 || size <= 0 {
		return nil, false
	}
	pages := (len(all) + size - 1) / size
	if page > pages {
		return nil, false
	}
	start := (page - 1) * size
	end := min(start+size, len(all))
	return all[start:end], true
}
