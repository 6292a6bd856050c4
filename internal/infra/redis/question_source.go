package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"txt-trivia/internal/domain"
	"txt-trivia/internal/questions"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CachedSource caches built question sets in Redis per category and count,
// falling back to the wrapped source on a miss. Concurrent misses for the
// same category collapse into a single upstream fetch.
type CachedSource struct {
	client *redis.Client
	source questions.Source
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCachedSource(client *redis.Client, source questions.Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *CachedSource) Fetch(ctx context.Context, categoryID string, count int) ([]domain.Question, error) {
	key := s.key(categoryID, count)

	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if cached, ok := s.lookup(ctx, key); ok {
			return cached, nil
		}

		list, err := s.source.Fetch(ctx, categoryID, count)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(encodeQuestions(list)); err == nil {
			_ = s.client.Set(ctx, key, data, s.ttlWithJitter()).Err()
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (s *CachedSource) lookup(ctx context.Context, key string) ([]domain.Question, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var cached []cachedQuestion
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}
	return decodeQuestions(cached), true
}

func (s *CachedSource) key(categoryID string, count int) string {
	return "trivia:questions:" + categoryID + ":" + strconv.Itoa(count)
}

func (s *CachedSource) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}

type cachedQuestion struct {
	Text       string         `json:"x"`
	Difficulty int            `json:"d"`
	Options    []cachedOption `json:"o"`
}

type cachedOption struct {
	Correct bool   `json:"c"`
	Num     int    `json:"i"`
	Text    string `json:"x"`
}

func encodeQuestions(list []domain.Question) []cachedQuestion {
	out := make([]cachedQuestion, 0, len(list))
	for _, question := range list {
		entry := cachedQuestion{Text: question.Text, Difficulty: question.Difficulty}
		for _, opt := range question.Options {
			entry.Options = append(entry.Options, cachedOption{
				Correct: opt.Correct,
				Num:     opt.OptionNum,
				Text:    opt.Text,
			})
		}
		out = append(out, entry)
	}
	return out
}

func decodeQuestions(cached []cachedQuestion) []domain.Question {
	list := make([]domain.Question, 0, len(cached))
	for _, entry := range cached {
		question := domain.Question{Text: entry.Text, Difficulty: entry.Difficulty}
		for _, opt := range entry.Options {
			question.Options = append(question.Options, domain.Answer{
				Correct:   opt.Correct,
				OptionNum: opt.Num,
				Text:      opt.Text,
			})
		}
		list = append(list, question)
	}
	return list
}

var _ questions.Source = (*CachedSource)(nil)
