package cache

import (
	"context"
	"encoding/json"
	"log"
)

const (
	recentsKey = "recent-categories"
	maxRecents = 5
)

// Recents tracks the most recently played categories for quickstart display,
// newest first, deduplicated, capped at five.
type Recents struct {
	store Store
}

func NewRecents(store Store) *Recents {
	return &Recents{store: store}
}

// Touch moves a category to the front of the recents list.
func (r *Recents) Touch(ctx context.Context, categoryID string) {
	recent := r.List(ctx)

	filtered := make([]string, 0, len(recent)+1)
	filtered = append(filtered, categoryID)
	for _, id := range recent {
		if id == categoryID {
			continue
		}
		if len(filtered) == maxRecents {
			break
		}
		filtered = append(filtered, id)
	}

	data, err := json.Marshal(filtered)
	if err != nil {
		return
	}
	if err := r.store.Set(ctx, recentsKey, string(data)); err != nil {
		log.Printf("save recent categories: %v", err)
	}
}

// List returns the recent category ids, newest first.
func (r *Recents) List(ctx context.Context) []string {
	raw, found, err := r.store.Get(ctx, recentsKey)
	if err != nil || !found {
		return nil
	}
	var recent []string
	if err := json.Unmarshal([]byte(raw), &recent); err != nil {
		return nil
	}
	return recent
}
