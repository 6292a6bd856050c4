package questions

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"txt-trivia/internal/domain"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func apiResult(question, difficulty, correct string, incorrect ...string) apiQuestion {
	encoded := make([]string, 0, len(incorrect))
	for _, s := range incorrect {
		encoded = append(encoded, b64(s))
	}
	return apiQuestion{
		Type:             b64("multiple"),
		Difficulty:       b64(difficulty),
		Question:         b64(question),
		CorrectAnswer:    b64(correct),
		IncorrectAnswers: encoded,
	}
}

func serveResults(t *testing.T, code int, results []apiQuestion) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("encode"); got != "base64" {
			t.Errorf("encode param: got %q", got)
		}
		json.NewEncoder(w).Encode(apiResponse{ResponseCode: code, Results: results})
	}))
}

func TestClientFetchDecodesAndOrders(t *testing.T) {
	server := serveResults(t, 0, []apiQuestion{
		apiResult("hard one", "hard", "right", "wrong a", "wrong b", "wrong c"),
		apiResult("easy one", "easy", "right", "wrong a", "wrong b", "wrong c"),
		apiResult("medium one", "medium", "right", "wrong a", "wrong b", "wrong c"),
	})
	defer server.Close()

	list, err := NewClient(server.URL).Fetch(context.Background(), "9", 3)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	wantOrder := []string{"easy one", "medium one", "hard one"}
	for i, want := range wantOrder {
		if list[i].Text != want {
			t.Fatalf("question %d: got %q want %q", i, list[i].Text, want)
		}
		if list[i].Difficulty != i {
			t.Fatalf("question %d difficulty: got %d want %d", i, list[i].Difficulty, i)
		}
		if len(list[i].Options) != 4 {
			t.Fatalf("question %d has %d options", i, len(list[i].Options))
		}
		correct, ok := list[i].CorrectOption()
		if !ok || correct.Text != "right" {
			t.Fatalf("question %d correct option: %+v", i, correct)
		}
	}
}

func TestClientFetchUnknownDifficulty(t *testing.T) {
	server := serveResults(t, 0, []apiQuestion{
		apiResult("odd one", "impossible", "right", "wrong"),
	})
	defer server.Close()

	list, err := NewClient(server.URL).Fetch(context.Background(), "9", 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if list[0].Difficulty != domain.DifficultyUnknown {
		t.Fatalf("unmapped difficulty: got %d", list[0].Difficulty)
	}
}

func TestClientFetchCategoryParam(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Query().Get("category"))
		json.NewEncoder(w).Encode(apiResponse{Results: []apiQuestion{
			apiResult("q", "easy", "right", "wrong"),
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Fetch(context.Background(), "23", 1); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := client.Fetch(context.Background(), "any", 1); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(requested) != 2 || requested[0] != "23" || requested[1] != "" {
		t.Fatalf("category params: %v", requested)
	}
}

func TestClientFetchBadResponseCode(t *testing.T) {
	server := serveResults(t, 1, nil)
	defer server.Close()

	_, err := NewClient(server.URL).Fetch(context.Background(), "9", 1)
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("want ErrCategoryNotFound, got %v", err)
	}
}

func TestClientFetchShortfall(t *testing.T) {
	server := serveResults(t, 0, []apiQuestion{
		apiResult("only one", "easy", "right", "wrong"),
	})
	defer server.Close()

	_, err := NewClient(server.URL).Fetch(context.Background(), "9", 4)
	if !errors.Is(err, domain.ErrQuestionShortfall) {
		t.Fatalf("want ErrQuestionShortfall, got %v", err)
	}
}

func TestClientFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Fetch(context.Background(), "9", 1); err == nil {
		t.Fatalf("expected error on server failure")
	}
}
