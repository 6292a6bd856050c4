package memory

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"txt-trivia/internal/domain"
)

// RawQuestion is an unbuilt question as a static pool stores it.
type RawQuestion struct {
	Text       string
	Correct    string
	Incorrect  []string
	Difficulty int
}

// StaticSource serves questions from an in-memory pool per category, useful
// for tests and demo runs without the question API.
type StaticSource struct {
	pools map[string][]RawQuestion
	rnd   *rand.Rand
}

func NewStaticSource(pools map[string][]RawQuestion) *StaticSource {
	return &StaticSource{
		pools: pools,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *StaticSource) Fetch(_ context.Context, categoryID string, count int) ([]domain.Question, error) {
	pool, ok := s.pools[categoryID]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	if len(pool) < count {
		return nil, fmt.Errorf("category %s holds %d questions, need %d: %w",
			categoryID, len(pool), count, domain.ErrQuestionShortfall)
	}

	picked := s.rnd.Perm(len(pool))[:count]
	list := make([]domain.Question, 0, count)
	for _, i := range picked {
		raw := pool[i]
		list = append(list, domain.Question{
			Text:       raw.Text,
			Options:    domain.BuildOptions(raw.Correct, raw.Incorrect, s.rnd),
			Difficulty: raw.Difficulty,
		})
	}
	return list, nil
}
