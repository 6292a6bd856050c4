package app

import "txt-trivia/internal/domain"

// Phase is the UI-facing state derived from a game snapshot: which screen a
// device should show.
type Phase string

const (
	// PhaseSetup means no game exists yet; show category and mode selection.
	PhaseSetup Phase = "setup"
	// PhaseResults means the game is over; show the outcome.
	PhaseResults Phase = "results"
	// PhaseWaiting means the local player answered and the opponent has not.
	PhaseWaiting Phase = "waiting"
	// PhaseQuestion means the local player has a question to answer.
	PhaseQuestion Phase = "question"
)

// PhaseOf routes a decoded game (or the absence of one) to a screen.
func PhaseOf(g *domain.Game) Phase {
	switch {
	case g == nil:
		return PhaseSetup
	case g.IsComplete():
		return PhaseResults
	case g.IsWaiting():
		return PhaseWaiting
	default:
		return PhaseQuestion
	}
}
