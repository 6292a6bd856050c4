// Package cache keeps the active player's in-progress answers alive between
// "user taps an option" and "message actually sent", so a relaunch or view
// teardown cannot lose them.
package cache

import (
	"context"
	"encoding/json"
	"log"

	"txt-trivia/internal/domain"
)

// Store abstracts the key/value persistence behind the cache. Implementations
// live in internal/infra; values are opaque strings owned by this package.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ResponseCache is a write-through cache of the active player's compacted
// responses, keyed by game and player.
type ResponseCache struct {
	store Store
}

func NewResponseCache(store Store) *ResponseCache {
	return &ResponseCache{store: store}
}

func storageKey(g *domain.Game) (string, bool) {
	player := g.ActivePlayer()
	if player == nil {
		return "", false
	}
	return g.ID + player.ID, true
}

// Save replaces the cached option numbers with the active player's current
// responses. Cache writes are best-effort; a failed write only risks losing
// unsent answers across a relaunch.
func (c *ResponseCache) Save(ctx context.Context, g *domain.Game) {
	key, ok := storageKey(g)
	if !ok {
		return
	}
	data, err := json.Marshal(g.ActivePlayer().CompressResponses())
	if err != nil {
		log.Printf("cache responses for %s: %v", g.ID, err)
		return
	}
	if err := c.store.Set(ctx, key, string(data)); err != nil {
		log.Printf("cache responses for %s: %v", g.ID, err)
	}
}

// Load fills the active player's empty response slots from the cache. A slot
// already populated from the decoded payload always wins over the cache.
func (c *ResponseCache) Load(ctx context.Context, g *domain.Game) {
	key, ok := storageKey(g)
	if !ok {
		return
	}
	cached, err := c.fetch(ctx, key)
	if err != nil || cached == nil {
		return
	}

	player := g.ActivePlayer()
	for i, optionNum := range cached {
		if i >= len(player.Responses) || player.Responses[i] != nil {
			continue
		}
		if i >= len(g.Questions) {
			break
		}
		if answer, ok := g.Questions[i].Option(optionNum); ok {
			a := answer
			player.Responses[i] = &a
		}
	}
}

// Clear drops the cache entry for the active player. With ifOutdated set the
// entry survives unless it holds fewer answers than the in-memory player,
// which guards against discarding cached answers before they were merged in.
func (c *ResponseCache) Clear(ctx context.Context, g *domain.Game, ifOutdated bool) {
	key, ok := storageKey(g)
	if !ok {
		return
	}
	if ifOutdated {
		cached, err := c.fetch(ctx, key)
		if err != nil {
			return
		}
		if len(cached) >= g.ActivePlayer().AnsweredCount() {
			return
		}
	}
	if err := c.store.Delete(ctx, key); err != nil {
		log.Printf("clear response cache for %s: %v", g.ID, err)
	}
}

func (c *ResponseCache) fetch(ctx context.Context, key string) ([]int, error) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil || !found {
		return nil, err
	}
	var cached []int
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		// Unreadable entries are treated as absent, never as a failure.
		return nil, nil
	}
	return cached, nil
}
