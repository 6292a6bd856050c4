// Package questions supplies built, ordered question sets for new games.
package questions

import (
	"context"
	"sort"

	"txt-trivia/internal/domain"
)

// Source fetches questionCount built questions for a category. A source must
// either return exactly the requested count or an error; games never start on
// a short question list.
type Source interface {
	Fetch(ctx context.Context, categoryID string, count int) ([]domain.Question, error)
}

// orderQuestions applies the easy-to-hard presentation order.
func orderQuestions(list []domain.Question) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Less(list[j])
	})
}
