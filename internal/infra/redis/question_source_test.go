package redis

import (
	"context"
	"testing"
	"time"

	"txt-trivia/internal/domain"
	"txt-trivia/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// countingSource wraps a source and counts upstream fetches.
type countingSource struct {
	inner   *memory.StaticSource
	fetches int
}

func (c *countingSource) Fetch(ctx context.Context, categoryID string, count int) ([]domain.Question, error) {
	c.fetches++
	return c.inner.Fetch(ctx, categoryID, count)
}

func staticPool() map[string][]memory.RawQuestion {
	return map[string][]memory.RawQuestion{
		"9": {
			{Text: "q1", Correct: "a", Incorrect: []string{"b", "c", "d"}, Difficulty: 0},
			{Text: "q2", Correct: "a", Incorrect: []string{"b", "c", "d"}, Difficulty: 1},
			{Text: "q3", Correct: "a", Incorrect: []string{"b", "c", "d"}, Difficulty: 2},
			{Text: "q4", Correct: "a", Incorrect: []string{"b", "c", "d"}, Difficulty: 2},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedSourceServesSecondFetchFromRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	upstream := &countingSource{inner: memory.NewStaticSource(staticPool())}
	source := NewCachedSource(newClient(mr), upstream, time.Minute)

	first, err := source.Fetch(context.Background(), "9", 4)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := source.Fetch(context.Background(), "9", 4)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if upstream.fetches != 1 {
		t.Fatalf("want 1 upstream fetch, got %d", upstream.fetches)
	}
	if len(second) != len(first) {
		t.Fatalf("cached set size changed: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if second[i].Text != first[i].Text || second[i].Difficulty != first[i].Difficulty {
			t.Fatalf("cached question %d differs: %+v vs %+v", i, second[i], first[i])
		}
		if _, ok := second[i].CorrectOption(); !ok {
			t.Fatalf("cached question %d lost its correct option", i)
		}
	}
}

func TestCachedSourceExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	upstream := &countingSource{inner: memory.NewStaticSource(staticPool())}
	source := NewCachedSource(newClient(mr), upstream, time.Minute)

	if _, err := source.Fetch(context.Background(), "9", 2); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	// Jitter stretches the TTL by at most ten percent.
	mr.FastForward(2 * time.Minute)

	if _, err := source.Fetch(context.Background(), "9", 2); err != nil {
		t.Fatalf("fetch after expiry: %v", err)
	}
	if upstream.fetches != 2 {
		t.Fatalf("want 2 upstream fetches after expiry, got %d", upstream.fetches)
	}
}

func TestCachedSourcePropagatesUpstreamErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	upstream := &countingSource{inner: memory.NewStaticSource(staticPool())}
	source := NewCachedSource(newClient(mr), upstream, time.Minute)

	if _, err := source.Fetch(context.Background(), "999", 2); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestKVStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewKV(newClient(mr), time.Minute)

	if _, found, err := store.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}

	if err := store.Set(ctx, "game1player1", "[0,2]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, found, err := store.Get(ctx, "game1player1")
	if err != nil || !found || value != "[0,2]" {
		t.Fatalf("get: value=%q found=%v err=%v", value, found, err)
	}

	if !mr.Exists("trivia:kv:game1player1") {
		t.Fatalf("expected a namespaced key in redis")
	}

	mr.FastForward(2 * time.Minute)
	if _, found, _ := store.Get(ctx, "game1player1"); found {
		t.Fatalf("entry survived its ttl")
	}

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatalf("key survived delete")
	}
}
