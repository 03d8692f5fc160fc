package trivia

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandlers exposes the trivia REST endpoints.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers constructs trivia HTTP handlers.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "trivia_http").Logger(),
	}
}

// ListCategories handles GET /categories
func (h *HTTPHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "success",
		"categories": cats.Map(),
	})
}

// ListQuestions handles GET /questions?page=N
func (h *HTTPHandlers) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	result, err := h.service.ListQuestions(r.Context(), page)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"message":          "success",
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"current_category": result.CurrentCategories,
		"categories":       result.Categories,
	})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}

	deleted, err := h.service.DeleteQuestion(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "delete",
		"question_id": deleted.ID,
	})
}

// CreateQuestion handles POST /questions
func (h *HTTPHandlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := decodeBody(w, r, &req); err != nil {
		if isMalformed(err) {
			httperrors.RespondBadRequest(w)
			return
		}
		httperrors.RespondUnprocessable(w)
		return
	}

	created, err := h.service.CreateQuestion(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "create",
		"question": created,
	})
}

// SearchQuestions handles POST /filtered_questions
func (h *HTTPHandlers) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeBody(w, r, &req); err != nil {
		if isMalformed(err) {
			httperrors.RespondBadRequest(w)
			return
		}
		httperrors.RespondUnprocessable(w)
		return
	}

	result, err := h.service.SearchQuestions(r.Context(), req.SearchTerm)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"message":          "success",
		"questions":        result.Questions,
		"total_questions":  len(result.Questions),
		"current_category": result.CurrentCategories,
	})
}

// CategoryQuestions handles GET /categories/{id}/questions
func (h *HTTPHandlers) CategoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}

	result, err := h.service.QuestionsInCategory(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"message":          "success",
		"questions":        result.Questions,
		"total_questions":  len(result.Questions),
		"current_category": result.Category.Type,
	})
}

// PlayQuiz handles POST /quizzes
func (h *HTTPHandlers) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if err := decodeBody(w, r, &req); err != nil {
		if isMalformed(err) {
			httperrors.RespondBadRequest(w)
			return
		}
		// A quiz_category that is not {type, id:int} cannot name any category.
		httperrors.RespondNotFound(w)
		return
	}

	result, err := h.service.PlayQuiz(r.Context(), req.Filter())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	message := "success"
	if result.Exhausted {
		message = "exhausted"
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  message,
		"question": result.Question,
	})
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w)
	case errors.Is(err, ErrUnprocessable):
		logger := logging.FromContext(r.Context())
		logger.Debug().Err(err).Msg("rejected request content")
		httperrors.RespondUnprocessable(w)
	default:
		h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		httperrors.RespondInternalError(w)
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("failed to encode response")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// isMalformed separates unreadable bodies (400) from readable ones whose
// field values have the wrong type. A body that is valid JSON but not an
// object fails at the top level, so its type error carries no field.
func isMalformed(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		sizeErr   *http.MaxBytesError
		typeErr   *json.UnmarshalTypeError
	)
	if errors.As(err, &typeErr) {
		return typeErr.Field == ""
	}
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &sizeErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
