package trivia

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateQuestionRequest is the body of POST /questions.
type CreateQuestionRequest struct {
	Question   string  `json:"question" validate:"required"`
	Answer     string  `json:"answer" validate:"required"`
	Category   FlexInt `json:"category" validate:"required"`
	Difficulty FlexInt `json:"difficulty" validate:"required"`
}

// QuizCategory is the category object sent by the play screen. Type is a
// display label and is ignored.
type QuizCategory struct {
	Type any     `json:"type"`
	ID   FlexInt `json:"id"`
}

// QuizRequest is the body of POST /quizzes.
type QuizRequest struct {
	QuizCategory      *QuizCategory `json:"quiz_category"`
	PreviousQuestions []int         `json:"previous_questions"`
}

// Filter converts the request into a draw filter; a missing category means any.
func (r QuizRequest) Filter() QuizFilter {
	filter := QuizFilter{Previous: r.PreviousQuestions}
	if r.QuizCategory != nil && r.QuizCategory.ID.Valid {
		filter.CategoryID = r.QuizCategory.ID.Value
	}
	return filter
}

// SearchRequest is the body of POST /filtered_questions.
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (r *CreateQuestionRequest) normalize() {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
}

// Validate reports the first invalid field as a *ValidationError.
func (r *CreateQuestionRequest) Validate() error {
	r.normalize()
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: "failed on the '" + fe.Tag() + "' rule",
		}
	}
	return &ValidationError{Field: "body", Message: err.Error()}
}
