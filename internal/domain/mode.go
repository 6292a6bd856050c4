package domain

import "fmt"

// ModeID indexes the fixed mode table. Games reference their mode by index
// rather than embedding it, keeping the wire payload small.
type ModeID int

const (
	TurnBased ModeID = iota
	RapidFire
)

// StartBehavior tells the caller what starting a game means under a mode:
// turn-based games send the challenge immediately, rapid-fire games are
// played locally first and sent once the run is over.
type StartBehavior int

const (
	StartSendsChallenge StartBehavior = iota
	StartPlaysLocally
)

// Mode is one entry of the closed ruleset table.
type Mode struct {
	ID           ModeID
	Name         string
	NumQuestions int
	TimeLimit    float64 // seconds, 0 for untimed
	Rules        string
}

const secondsPerQuestion = 10

// Modes is the full mode table. Indexes are part of the wire contract.
var Modes = []Mode{
	{
		ID:           TurnBased,
		Name:         "Trivia duel",
		NumQuestions: 4,
		Rules:        "Take turns answering 4 questions with no time limit",
	},
	{
		ID:           RapidFire,
		Name:         "Rapid-fire",
		NumQuestions: 6,
		TimeLimit:    6 * secondsPerQuestion,
		Rules: fmt.Sprintf("Answer 6 questions in a row within %d seconds, "+
			"then challenge your opponent to do the same.", 6*secondsPerQuestion),
	},
}

// ModeByID resolves a mode index, reporting whether it names a known mode.
func ModeByID(id ModeID) (Mode, bool) {
	if id < 0 || int(id) >= len(Modes) {
		return Mode{}, false
	}
	return Modes[id], true
}

// Timed reports whether the mode plays against the clock.
func (m Mode) Timed() bool {
	return m.TimeLimit > 0
}

// Start reports how a freshly populated game under this mode begins.
func (m Mode) Start() StartBehavior {
	if m.ID == RapidFire {
		return StartPlaysLocally
	}
	return StartSendsChallenge
}

// IsComplete evaluates the mode's completion rule for a game. A turn-based
// game ends when the cursor sits on the last question and both players have
// answered it; a rapid-fire game ends once both players carry a completion
// time.
func (m Mode) IsComplete(g *Game) bool {
	switch m.ID {
	case RapidFire:
		if len(g.Players) < 2 {
			return false
		}
		for _, player := range g.Players {
			if player.CompletionTime == nil {
				return false
			}
		}
		return true
	default:
		return !g.HasNextQuestion() && g.AllPlayersAnswered()
	}
}

// Caption produces the transcript caption for an in-progress game, from the
// perspective of the active player.
func (m Mode) Caption(g *Game, isChallenger bool) string {
	if m.ID == RapidFire {
		challenger := g.Challenger()
		if challenger == nil {
			return ""
		}
		score := fmt.Sprintf("%d/%d", challenger.Score(), len(challenger.Responses))
		if isChallenger {
			return "Challenge sent. Your score: " + score
		}
		return fmt.Sprintf("Can you beat my score of %s?", score)
	}

	selfAnswered := g.HasAnswered(g.ActivePlayer())
	othersAnswered := g.HaveAnswered(g.InactivePlayers(), 1)

	switch {
	case selfAnswered && !othersAnswered:
		return CaptionWaiting
	case !selfAnswered && g.NudgeIndex != nil && *g.NudgeIndex == g.CurrentIndex:
		return CaptionNudged
	case g.CurrentIndex == 0 && !selfAnswered && !othersAnswered:
		if isChallenger {
			return CaptionChallengeSent
		}
		return CaptionChallenge
	default:
		return CaptionReady
	}
}

// Transcript captions. The wording rides along in message layouts, so it is
// part of the app's visible surface even though the payload never carries it.
const (
	CaptionChallenge     = "I challenge you to a game of trivia!"
	CaptionChallengeSent = "Your challenge was sent - tap to start"
	CaptionReady         = "Your turn to answer."
	CaptionNudged        = "Don't forget about our game!"
	CaptionWaiting       = "Waiting on opponent..."
	CaptionWin           = "You win!"
	CaptionLose          = "GAME OVER"
	CaptionTie           = "It's a tie!"
)
