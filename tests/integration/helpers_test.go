//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"testing"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:5000")
}

// doRequest sends body as JSON (nil for none) and decodes the JSON envelope.
// INTEGRATION_ADMIN_TOKEN is attached when set so write endpoints work against
// a server running with JWT_SECRET.
func doRequest(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL()+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := os.Getenv("INTEGRATION_ADMIN_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func createQuestion(t *testing.T, question string, category int) int {
	t.Helper()

	status, out := doRequest(t, http.MethodPost, "/questions", map[string]interface{}{
		"question":   question,
		"answer":     "integration",
		"category":   category,
		"difficulty": 2,
	})
	if status != http.StatusOK {
		t.Fatalf("create question: status %d, body %v", status, out)
	}
	created, ok := out["question"].(map[string]interface{})
	if !ok {
		t.Fatalf("create question: missing question in %v", out)
	}
	return int(created["id"].(float64))
}

func deleteQuestion(t *testing.T, id int) {
	t.Helper()
	status, out := doRequest(t, http.MethodDelete, "/questions/"+strconv.Itoa(id), nil)
	if status != http.StatusOK {
		t.Fatalf("delete question %d: status %d, body %v", id, status, out)
	}
}
