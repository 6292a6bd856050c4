package memory

import (
	"context"
	"errors"
	"testing"

	"txt-trivia/internal/domain"
)

func testPool() map[string][]RawQuestion {
	return map[string][]RawQuestion{
		"9": {
			{Text: "q1", Correct: "a", Incorrect: []string{"b", "c", "d"}},
			{Text: "q2", Correct: "a", Incorrect: []string{"b", "c", "d"}},
			{Text: "q3", Correct: "a", Incorrect: []string{"b", "c", "d"}},
		},
	}
}

func TestStaticSourceFetch(t *testing.T) {
	source := NewStaticSource(testPool())

	list, err := source.Fetch(context.Background(), "9", 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 questions, got %d", len(list))
	}
	for _, question := range list {
		if len(question.Options) != 4 {
			t.Fatalf("question %q has %d options", question.Text, len(question.Options))
		}
		if _, ok := question.CorrectOption(); !ok {
			t.Fatalf("question %q has no correct option", question.Text)
		}
	}
}

func TestStaticSourceUnknownCategory(t *testing.T) {
	source := NewStaticSource(testPool())

	if _, err := source.Fetch(context.Background(), "999", 1); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("want ErrCategoryNotFound, got %v", err)
	}
}

func TestStaticSourceShortfall(t *testing.T) {
	source := NewStaticSource(testPool())

	if _, err := source.Fetch(context.Background(), "9", 10); !errors.Is(err, domain.ErrQuestionShortfall) {
		t.Fatalf("want ErrQuestionShortfall, got %v", err)
	}
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewKV()

	if _, found, err := store.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, found, err := store.Get(ctx, "k")
	if err != nil || !found || value != "v" {
		t.Fatalf("get: value=%q found=%v err=%v", value, found, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatalf("key survived delete")
	}
}
