package trivia

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerMux(svc *Service) *http.ServeMux {
	h := NewHTTPHandlers(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", h.ListCategories)
	mux.HandleFunc("GET /questions", h.ListQuestions)
	mux.HandleFunc("DELETE /questions/{id}", h.DeleteQuestion)
	mux.HandleFunc("POST /questions", h.CreateQuestion)
	mux.HandleFunc("POST /filtered_questions", h.SearchQuestions)
	mux.HandleFunc("GET /categories/{id}/questions", h.CategoryQuestions)
	mux.HandleFunc("POST /quizzes", h.PlayQuiz)
	return mux
}

func doJSON(t *testing.T, mux http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return rec.Code, payload
}

func assertErrorEnvelope(t *testing.T, payload map[string]any, status int, message string) {
	t.Helper()
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, float64(status), payload["error"])
	assert.Equal(t, message, payload["message"])
}

func TestHTTP_ListCategories(t *testing.T) {
	mux := newHandlerMux(newTestService(newMemoryQuestions(), standardCategories(), ServiceOptions{}))

	code, payload := doJSON(t, mux, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "success", payload["message"])

	cats, ok := payload["categories"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Geography", cats["3"])
}

func TestHTTP_ListQuestions(t *testing.T) {
	mux := newHandlerMux(newTestService(newMemoryQuestions(seedRows(1, 12, 2)...), standardCategories(), ServiceOptions{}))

	t.Run("second page", func(t *testing.T) {
		code, payload := doJSON(t, mux, http.MethodGet, "/questions?page=2", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, payload["questions"], 2)
		assert.Equal(t, float64(2), payload["total_questions"])
		assert.Equal(t, map[string]any{"2": "Art"}, payload["current_category"])
		assert.Len(t, payload["categories"], 6)
	})

	t.Run("missing page defaults to first", func(t *testing.T) {
		_, payload := doJSON(t, mux, http.MethodGet, "/questions", "")
		assert.Len(t, payload["questions"], 10)
	})

	t.Run("non integer page falls back to first", func(t *testing.T) {
		code, payload := doJSON(t, mux, http.MethodGet, "/questions?page=abc", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, payload["questions"], 10)
	})

	t.Run("page past the end", func(t *testing.T) {
		code, payload := doJSON(t, mux, http.MethodGet, "/questions?page=4", "")
		assert.Equal(t, http.StatusNotFound, code)
		assertErrorEnvelope(t, payload, http.StatusNotFound, "Not found")
	})

	t.Run("huge page is not found", func(t *testing.T) {
		code, payload := doJSON(t, mux, http.MethodGet, "/questions?page=922337203685477582", "")
		assert.Equal(t, http.StatusNotFound, code)
		assertErrorEnvelope(t, payload, http.StatusNotFound, "Not found")
	})
}

func TestHTTP_DeleteQuestion(t *testing.T) {
	mux := newHandlerMux(newTestService(newMemoryQuestions(seedRows(1, 3, 1)...), standardCategories(), ServiceOptions{}))

	code, payload := doJSON(t, mux, http.MethodDelete, "/questions/2", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "delete", payload["message"])
	assert.Equal(t, float64(2), payload["question_id"])

	code, payload = doJSON(t, mux, http.MethodDelete, "/questions/2", "")
	assert.Equal(t, http.StatusNotFound, code)
	assertErrorEnvelope(t, payload, http.StatusNotFound, "Not found")

	code, _ = doJSON(t, mux, http.MethodDelete, "/questions/abc", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHTTP_CreateQuestion(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantRows   int
	}{
		{
			name:       "numeric fields",
			body:       `{"question":"Which river is longest?","answer":"Nile","category":3,"difficulty":2}`,
			wantStatus: http.StatusOK,
			wantRows:   3,
		},
		{
			name:       "numeric strings from form selects",
			body:       `{"question":"Which river is longest?","answer":"Nile","category":"3","difficulty":"2"}`,
			wantStatus: http.StatusOK,
			wantRows:   3,
		},
		{
			name:       "non numeric category",
			body:       `{"question":"Q?","answer":"A","category":"abc","difficulty":1}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantRows:   2,
		},
		{
			name:       "missing answer",
			body:       `{"question":"Q?","category":1,"difficulty":1}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantRows:   2,
		},
		{
			name:       "unknown category",
			body:       `{"question":"Q?","answer":"A","category":99,"difficulty":1}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantRows:   2,
		},
		{
			name:       "question is not a string",
			body:       `{"question":5,"answer":"A","category":1,"difficulty":1}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantRows:   2,
		},
		{
			name:       "malformed json",
			body:       `{"question":`,
			wantStatus: http.StatusBadRequest,
			wantRows:   2,
		},
		{
			name:       "array body",
			body:       `[]`,
			wantStatus: http.StatusBadRequest,
			wantRows:   2,
		},
		{
			name:       "string body",
			body:       `"x"`,
			wantStatus: http.StatusBadRequest,
			wantRows:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions := newMemoryQuestions(seedRows(1, 2, 1)...)
			mux := newHandlerMux(newTestService(questions, standardCategories(), ServiceOptions{}))

			code, payload := doJSON(t, mux, http.MethodPost, "/questions", tt.body)
			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, tt.wantRows, questions.count())

			switch tt.wantStatus {
			case http.StatusOK:
				assert.Equal(t, "create", payload["message"])
				created, ok := payload["question"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, float64(3), created["category"])
				assert.Equal(t, float64(2), created["difficulty"])
			case http.StatusUnprocessableEntity:
				assertErrorEnvelope(t, payload, code, "unprocessable")
			case http.StatusBadRequest:
				assertErrorEnvelope(t, payload, code, "Bad request")
			}
		})
	}
}

func TestHTTP_SearchQuestions(t *testing.T) {
	rows := seedRows(1, 12, 4)
	mux := newHandlerMux(newTestService(newMemoryQuestions(rows...), standardCategories(), ServiceOptions{}))

	code, payload := doJSON(t, mux, http.MethodPost, "/filtered_questions", `{"searchTerm":"NUMBER 1"}`)
	assert.Equal(t, http.StatusOK, code)
	// 1, 10, 11, 12
	assert.Equal(t, float64(4), payload["total_questions"])
	assert.Equal(t, map[string]any{"4": "History"}, payload["current_category"])

	code, payload = doJSON(t, mux, http.MethodPost, "/filtered_questions", `{"searchTerm":"zebra"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assertErrorEnvelope(t, payload, http.StatusNotFound, "Not found")

	code, _ = doJSON(t, mux, http.MethodPost, "/filtered_questions", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, payload = doJSON(t, mux, http.MethodPost, "/filtered_questions", `["zebra"]`)
	assert.Equal(t, http.StatusBadRequest, code)
	assertErrorEnvelope(t, payload, http.StatusBadRequest, "Bad request")
}

func TestHTTP_CategoryQuestions(t *testing.T) {
	mux := newHandlerMux(newTestService(newMemoryQuestions(seedRows(1, 3, 2)...), standardCategories(), ServiceOptions{}))

	code, payload := doJSON(t, mux, http.MethodGet, "/categories/2/questions", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Art", payload["current_category"])
	assert.Equal(t, float64(3), payload["total_questions"])

	code, payload = doJSON(t, mux, http.MethodGet, "/categories/1/questions", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, payload["questions"])
	assert.Equal(t, float64(0), payload["total_questions"])

	code, _ = doJSON(t, mux, http.MethodGet, "/categories/99/questions", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, mux, http.MethodGet, "/categories/art/questions", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHTTP_PlayQuiz(t *testing.T) {
	rows := append(seedRows(1, 2, 1), seedRows(3, 2, 6)...)
	mux := newHandlerMux(newTestService(newMemoryQuestions(rows...), standardCategories(), ServiceOptions{}))

	t.Run("serves an unseen question from the category", func(t *testing.T) {
		code, payload := doJSON(t, mux, http.MethodPost, "/quizzes",
			`{"quiz_category":{"type":"Sports","id":"6"},"previous_questions":[3]}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "success", payload["message"])
		q, ok := payload["question"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(4), q["id"])
	})

	t.Run("exhausted across all categories", func(t *testing.T) {
		code, payload := doJSON(t, mux, http.MethodPost, "/quizzes",
			`{"quiz_category":{"type":"click","id":0},"previous_questions":[1,2,3,4]}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "exhausted", payload["message"])
		assert.Contains(t, payload, "question")
		assert.Nil(t, payload["question"])
	})

	t.Run("non numeric category id", func(t *testing.T) {
		code, payload := doJSON(t, mux, http.MethodPost, "/quizzes",
			`{"quiz_category":{"type":"Sports","id":"sports"},"previous_questions":[]}`)
		assert.Equal(t, http.StatusNotFound, code)
		assertErrorEnvelope(t, payload, http.StatusNotFound, "Not found")
	})

	t.Run("previous questions wrong shape", func(t *testing.T) {
		code, _ := doJSON(t, mux, http.MethodPost, "/quizzes", `{"previous_questions":"1,2"}`)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("malformed json", func(t *testing.T) {
		code, _ := doJSON(t, mux, http.MethodPost, "/quizzes", `{"quiz_category":`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("body is not an object", func(t *testing.T) {
		code, _ := doJSON(t, mux, http.MethodPost, "/quizzes", `[1,2]`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/quizzes", http.NoBody)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
