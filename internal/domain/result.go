package domain

// Result is the game outcome from the active player's perspective.
type Result string

const (
	ResultWin  Result = "win"
	ResultLose Result = "lose"
	ResultDraw Result = "draw"
	ResultTBD  Result = "tbd"
)

// Result derives the outcome for the active player. Undecided until the game
// completes; a score below the top loses outright; a unique top score wins.
// Tied top scores draw under turn-based rules and go to a completion-time
// tie-break under rapid-fire.
func (g *Game) Result() Result {
	if !g.IsComplete() {
		return ResultTBD
	}

	topScore := 0
	for _, player := range g.Players {
		if score := player.Score(); score > topScore {
			topScore = score
		}
	}

	active := g.ActivePlayer()
	if active == nil || active.Score() < topScore {
		return ResultLose
	}

	winners := make([]*Player, 0, len(g.Players))
	for _, player := range g.Players {
		if player.Score() == topScore {
			winners = append(winners, player)
		}
	}

	if len(winners) == 1 {
		return ResultWin
	}
	if g.Mode().ID == TurnBased {
		return ResultDraw
	}
	return breakTie(winners)
}

// breakTie resolves equal rapid-fire scores by completion time: the unique
// fastest player wins; a shared fastest time stays a draw.
func breakTie(winners []*Player) Result {
	fastest := FastestTime(winners)
	fastestCount := 0
	var active *Player
	for _, player := range winners {
		if player.CompletionTime != nil && fastest != nil && *player.CompletionTime == *fastest {
			fastestCount++
		}
		if player.Active {
			active = player
		}
	}

	if fastestCount == 1 {
		if active != nil && active.CompletionTime != nil && fastest != nil &&
			*active.CompletionTime == *fastest {
			return ResultWin
		}
		return ResultLose
	}
	return ResultDraw
}
