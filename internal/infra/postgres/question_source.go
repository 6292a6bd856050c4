package postgres

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"txt-trivia/internal/domain"
	"txt-trivia/internal/questions"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionSource draws questions from a self-hosted question bank in
// Postgres, an alternative to the public trivia API.
type QuestionSource struct {
	pool *pgxpool.Pool
	rnd  *rand.Rand
}

func NewQuestionSource(pool *pgxpool.Pool) *QuestionSource {
	return &QuestionSource{
		pool: pool,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *QuestionSource) Fetch(ctx context.Context, categoryID string, count int) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT question, correct, incorrect, difficulty
		   FROM questions
		  WHERE category_id = $1
		  ORDER BY random()
		  LIMIT $2`, categoryID, count)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Question, 0, count)
	for rows.Next() {
		var (
			text       string
			correct    string
			incorrect  []string
			difficulty int
		)
		if err := rows.Scan(&text, &correct, &incorrect, &difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		list = append(list, domain.Question{
			Text:       text,
			Options:    domain.BuildOptions(correct, incorrect, s.rnd),
			Difficulty: difficulty,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	if len(list) < count {
		return nil, fmt.Errorf("category %s holds %d questions, need %d: %w",
			categoryID, len(list), count, domain.ErrQuestionShortfall)
	}
	return list, nil
}

var _ questions.Source = (*QuestionSource)(nil)
