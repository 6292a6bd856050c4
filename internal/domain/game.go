package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPlayers caps a game at two participants.
const MaxPlayers = 2

// Game is the root aggregate for one logical trivia game. Each device holds
// its own independent instance; the two copies are reconciled only through
// the wire payload and response merging.
type Game struct {
	ID            string
	CategoryID    string
	ModeID        ModeID
	CurrentIndex  int
	NudgeIndex    *int
	Players       []*Player
	Questions     []Question
	SentTime      time.Time
	TimeRemaining *float64
	SenderID      string
}

// NewGame creates an empty game for a category and mode. Questions and
// players are populated afterwards.
func NewGame(categoryID string, mode ModeID) *Game {
	return &Game{
		ID:         CompactID(),
		CategoryID: categoryID,
		ModeID:     mode,
		SentTime:   time.Now(),
	}
}

// CompactID returns a dash-stripped UUID, short enough for URL payloads.
func CompactID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Mode resolves the game's ruleset from the mode table.
func (g *Game) Mode() Mode {
	mode, ok := ModeByID(g.ModeID)
	if !ok {
		return Modes[TurnBased]
	}
	return mode
}

// ActivePlayer returns the player operating the local device, if derived.
func (g *Game) ActivePlayer() *Player {
	for _, player := range g.Players {
		if player.Active {
			return player
		}
	}
	return nil
}

// SetActivePlayer marks the given player active and all others inactive.
// Passing nil clears the flag everywhere, as happens before serializing.
func (g *Game) SetActivePlayer(active *Player) {
	for _, player := range g.Players {
		player.Active = player == active
	}
}

// InactivePlayers lists every player except the active one.
func (g *Game) InactivePlayers() []*Player {
	inactive := make([]*Player, 0, len(g.Players))
	for _, player := range g.Players {
		if !player.Active {
			inactive = append(inactive, player)
		}
	}
	return inactive
}

// Challenger is the player who created the game.
func (g *Game) Challenger() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[0]
}

// PlayerFor resolves the slot owned by a participant. Participant ids are
// conversation-scoped, so the peer device never sees the id the challenger
// recorded for itself: a participant who is not the challenger owns the
// remaining slot.
func (g *Game) PlayerFor(participantID string) *Player {
	if len(g.Players) > 0 && g.Players[0].ID == participantID {
		return g.Players[0]
	}
	if len(g.Players) > 1 {
		return g.Players[len(g.Players)-1]
	}
	return nil
}

// AddPlayers claims a slot for the local participant if one is free and marks
// their player active. Adding beyond the player cap is silently ignored.
func (g *Game) AddPlayers(localID string) {
	if len(g.Players) < MaxPlayers && g.PlayerFor(localID) == nil {
		g.Players = append(g.Players, NewPlayer(localID, g.Mode().NumQuestions))
	}
	g.SetActivePlayer(g.PlayerFor(localID))
}

// HasAnswered reports whether the player answered the current question.
func (g *Game) HasAnswered(player *Player) bool {
	return player != nil && player.HasAnswered(g.CurrentIndex)
}

// HaveAnswered reports whether at least min players are present and every one
// of them has answered the current question.
func (g *Game) HaveAnswered(players []*Player, min int) bool {
	if len(players) < min {
		return false
	}
	for _, player := range players {
		if !g.HasAnswered(player) {
			return false
		}
	}
	return true
}

// AllPlayersAnswered requires a full game with both players answered up to
// the current question.
func (g *Game) AllPlayersAnswered() bool {
	return g.HaveAnswered(g.Players, MaxPlayers)
}

// IsWaiting reports that the active player answered the current question but
// the opposition has not.
func (g *Game) IsWaiting() bool {
	inactive := g.InactivePlayers()
	if len(inactive) > 0 && g.HaveAnswered(inactive, 1) {
		return false
	}
	return g.HasAnswered(g.ActivePlayer())
}

// HasNextQuestion reports whether the cursor can still advance.
func (g *Game) HasNextQuestion() bool {
	return g.CurrentIndex+1 < g.Mode().NumQuestions
}

// IsComplete evaluates the mode's completion rule.
func (g *Game) IsComplete() bool {
	return g.Mode().IsComplete(g)
}

// CurrentQuestion returns the question under the cursor.
func (g *Game) CurrentQuestion() (Question, bool) {
	if g.CurrentIndex < 0 || g.CurrentIndex >= len(g.Questions) {
		return Question{}, false
	}
	return g.Questions[g.CurrentIndex], true
}

// InitialIndex derives where the active player resumes: walk back from the
// last revealed question to the most recent answered one, or the cursor when
// nothing has been revealed yet.
func (g *Game) InitialIndex() int {
	player := g.ActivePlayer()
	if player == nil || player.LastReveal == nil {
		return g.CurrentIndex
	}

	i := g.Mode().NumQuestions
	for i > *player.LastReveal && i > 0 {
		i--
		if player.Responses[i] == nil {
			continue
		}
		break
	}
	return i
}

// Advance records the reveal of the current question for the active player
// and moves the cursor forward when another question remains.
func (g *Game) Advance() {
	if player := g.ActivePlayer(); player != nil {
		index := g.CurrentIndex
		player.LastReveal = &index
	}
	if g.HasNextQuestion() {
		g.CurrentIndex++
	}
}

// ResetTime seeds the countdown with the mode's limit when none is running.
func (g *Game) ResetTime() {
	if g.TimeRemaining == nil && g.Mode().Timed() {
		limit := g.Mode().TimeLimit
		g.TimeRemaining = &limit
	}
}

// PrepareToSend readies the game for serialization: stamp the send time and
// sender, drop the countdown, and clear the active flag so the receiving
// device re-derives its own player. An unfinished rapid-fire game rewinds to
// the first question because each send represents a fresh solo run.
func (g *Game) PrepareToSend(now time.Time) {
	g.SentTime = now
	if active := g.ActivePlayer(); active != nil {
		g.SenderID = active.ID
	}
	g.TimeRemaining = nil
	g.SetActivePlayer(nil)

	if g.Mode().ID != RapidFire {
		return
	}
	if !g.IsComplete() {
		g.CurrentIndex = 0
	}
}
