package trivia

// Question bank change events.
const (
	EventQuestionCreated = "question_created"
	EventQuestionDeleted = "question_deleted"
)

// Event describes a change to the question bank.
type Event struct {
	Type     string   `json:"type"`
	Question Question `json:"question"`
}
