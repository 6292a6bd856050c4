package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"txt-trivia/internal/cache"
	"txt-trivia/internal/codec"
	"txt-trivia/internal/domain"
	"txt-trivia/internal/questions"
)

// GameService drives one device's view of a trivia game: creating and
// populating games, decoding incoming snapshots, layering cached local
// answers on top, merging peer progress, and producing outgoing messages.
type GameService struct {
	source  questions.Source
	cache   *cache.ResponseCache
	recents *cache.Recents
	now     func() time.Time
}

func NewGameService(source questions.Source, store cache.Store) *GameService {
	return &GameService{
		source:  source,
		cache:   cache.NewResponseCache(store),
		recents: cache.NewRecents(store),
		now:     time.Now,
	}
}

// NewGameServiceWithClock is test-only for deterministic send times.
func NewGameServiceWithClock(source questions.Source, store cache.Store, now func() time.Time) *GameService {
	s := NewGameService(source, store)
	s.now = now
	return s
}

// OutgoingMessage is a ready-to-transmit message: the payload URL plus the
// transcript caption shown beside the bubble.
type OutgoingMessage struct {
	URL     string
	Caption string
}

// NewGame creates a game, populates its questions from the source, and claims
// the first player slot for the local participant. A short question list
// fails the whole operation; a game must never start with fewer questions
// than its mode calls for.
func (s *GameService) NewGame(ctx context.Context, categoryID string, modeID domain.ModeID, localID string) (*domain.Game, error) {
	mode, ok := domain.ModeByID(modeID)
	if !ok {
		return nil, domain.ErrUnknownMode
	}

	g := domain.NewGame(categoryID, modeID)
	list, err := s.source.Fetch(ctx, categoryID, mode.NumQuestions)
	if err != nil {
		return nil, fmt.Errorf("populate game %s: %w", g.ID, err)
	}
	if len(list) != mode.NumQuestions {
		return nil, fmt.Errorf("populate game %s: %w", g.ID, domain.ErrQuestionShortfall)
	}
	g.Questions = list

	g.AddPlayers(localID)
	s.recents.Touch(ctx, categoryID)
	return g, nil
}

// Start begins a freshly populated game. Turn-based games send the challenge
// right away and return the message to transmit; rapid-fire games arm the
// countdown and return nil, the run is played locally before anything is sent.
func (s *GameService) Start(ctx context.Context, g *domain.Game) (*OutgoingMessage, error) {
	switch g.Mode().Start() {
	case domain.StartPlaysLocally:
		g.ResetTime()
		return nil, nil
	default:
		return s.transmit(ctx, g, domain.CaptionChallenge)
	}
}

// Receive reconstructs a game from an incoming message payload, derives the
// local player, re-applies answers cached before the last relaunch, and drops
// cache entries the payload has overtaken. A payload that cannot be decoded
// yields no game, which callers treat as "start fresh".
func (s *GameService) Receive(ctx context.Context, rawURL, localID string) *domain.Game {
	g, ok := codec.DecodeMessage(rawURL)
	if !ok {
		return nil
	}

	g.AddPlayers(localID)
	s.cache.Load(ctx, g)
	s.cache.Clear(ctx, g, true)

	// A recipient who was not the last sender replays the round the sender
	// already advanced past.
	if !g.IsComplete() && !g.IsWaiting() {
		if active := g.ActivePlayer(); active != nil && active.ID != g.SenderID && g.CurrentIndex != 0 {
			g.CurrentIndex--
		}
	}
	return g
}

// MergeIncoming folds a freshly arrived snapshot of the same game into the
// in-memory one. Each received player is matched to a local slot and merged
// gap-fill only, so answers recorded locally but not yet sent survive.
// Returns whether the merge completed the current round.
func (s *GameService) MergeIncoming(g *domain.Game, rawURL string) bool {
	incoming, ok := codec.DecodeMessage(rawURL)
	if !ok || incoming.ID != g.ID {
		return false
	}
	for _, received := range incoming.Players {
		existing := g.PlayerFor(received.ID)
		if existing == nil {
			// First word from the opponent: claim the free slot wholesale.
			if len(g.Players) < domain.MaxPlayers {
				g.Players = append(g.Players, received)
			}
			continue
		}
		existing.Merge(received)
	}
	return g.AllPlayersAnswered()
}

// Answer records the active player's response to the current question and
// writes the cache through. Re-answering an already answered question, or
// answering after a rapid-fire run completed, is silently ignored.
func (s *GameService) Answer(ctx context.Context, g *domain.Game, optionNum int) bool {
	player := g.ActivePlayer()
	if player == nil || player.CompletionTime != nil {
		return false
	}
	question, ok := g.CurrentQuestion()
	if !ok {
		return false
	}
	answer, ok := question.Option(optionNum)
	if !ok {
		return false
	}
	if !player.Record(g.CurrentIndex, answer) {
		return false
	}
	s.cache.Save(ctx, g)
	return true
}

// Reveal marks the current question revealed for the active player and moves
// the cursor to the next question when one remains.
func (s *GameService) Reveal(g *domain.Game) {
	g.Advance()
}

// Resume positions a turn-based game at the question the active player should
// see after reopening it.
func (s *GameService) Resume(g *domain.Game) {
	if g.Mode().ID == domain.TurnBased {
		g.CurrentIndex = g.InitialIndex()
	}
}

// CompleteRun stamps the active player's rapid-fire completion time, rounded
// to hundredths. Only the first completion counts.
func (s *GameService) CompleteRun(g *domain.Game, elapsed float64) {
	player := g.ActivePlayer()
	if player == nil || player.CompletionTime != nil || !g.Mode().Timed() {
		return
	}
	rounded := math.Round(elapsed*100) / 100
	player.CompletionTime = &rounded
}

// Send prepares and encodes the game for transmission, clears the sender's
// response cache, and re-derives the active player for continued local use.
func (s *GameService) Send(ctx context.Context, g *domain.Game) (*OutgoingMessage, error) {
	active := g.ActivePlayer()
	if active == nil {
		return nil, domain.ErrNoActivePlayer
	}
	caption := s.Caption(g, active == g.Challenger())
	if caption == "" {
		caption = domain.CaptionReady
	}
	return s.transmit(ctx, g, caption)
}

func (s *GameService) transmit(ctx context.Context, g *domain.Game, caption string) (*OutgoingMessage, error) {
	active := g.ActivePlayer()
	if active == nil {
		return nil, domain.ErrNoActivePlayer
	}
	localID := active.ID

	g.PrepareToSend(s.now())
	rawURL, err := codec.EncodeMessage(g)
	if err != nil {
		return nil, err
	}

	g.AddPlayers(localID)
	s.cache.Clear(ctx, g, false)
	return &OutgoingMessage{URL: rawURL, Caption: caption}, nil
}

// Nudge re-sends the current state to prompt an unresponsive opponent. It
// stamps the send time and remembers which question the nudge was for, but
// deliberately skips PrepareToSend: a nudge must not advance or rewind
// anything.
func (s *GameService) Nudge(g *domain.Game) (*OutgoingMessage, error) {
	g.SentTime = s.now()
	index := g.CurrentIndex
	g.NudgeIndex = &index

	rawURL, err := codec.EncodeMessage(g)
	if err != nil {
		return nil, err
	}
	return &OutgoingMessage{URL: rawURL, Caption: domain.CaptionNudged}, nil
}

// Caption derives the transcript caption for the game's current state from
// the active player's perspective.
func (s *GameService) Caption(g *domain.Game, isChallenger bool) string {
	if g.IsComplete() {
		switch g.Result() {
		case domain.ResultWin:
			return domain.CaptionWin
		case domain.ResultLose:
			return domain.CaptionLose
		case domain.ResultDraw:
			return domain.CaptionTie
		}
	}
	return g.Mode().Caption(g, isChallenger)
}

// RecentCategories lists the categories played most recently on this device.
func (s *GameService) RecentCategories(ctx context.Context) []string {
	return s.recents.List(ctx)
}
