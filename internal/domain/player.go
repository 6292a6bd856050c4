package domain

// Player is one participant's share of a game: identity, active flag for the
// device currently holding the snapshot, and a sparse response array sized to
// the mode's question count.
type Player struct {
	ID             string
	Active         bool
	Responses      []*Answer
	CompletionTime *float64
	LastReveal     *int
}

// NewPlayer creates a player with an empty response slot per question.
func NewPlayer(id string, questionCount int) *Player {
	return &Player{
		ID:        id,
		Responses: make([]*Answer, questionCount),
	}
}

// Score counts correct responses. Derived, never stored.
func (p *Player) Score() int {
	score := 0
	for _, response := range p.Responses {
		if response != nil && response.Correct {
			score++
		}
	}
	return score
}

// Record stores a response for a question. Recording over an existing
// response is a no-op: replays and races are expected, a player may never
// revise an answer.
func (p *Player) Record(questionNum int, answer Answer) bool {
	if questionNum < 0 || questionNum >= len(p.Responses) {
		return false
	}
	if p.Responses[questionNum] != nil {
		return false
	}
	a := answer
	p.Responses[questionNum] = &a
	return true
}

// HasAnswered reports whether the player answered the given question.
func (p *Player) HasAnswered(questionNum int) bool {
	return questionNum >= 0 && questionNum < len(p.Responses) && p.Responses[questionNum] != nil
}

// AnsweredCount is the number of filled response slots.
func (p *Player) AnsweredCount() int {
	count := 0
	for _, response := range p.Responses {
		if response != nil {
			count++
		}
	}
	return count
}

// CompressResponses reduces the response array to option numbers for the wire.
// Slots past the last answered question fall off the end.
func (p *Player) CompressResponses() []int {
	compact := make([]int, 0, len(p.Responses))
	for _, response := range p.Responses {
		if response == nil {
			continue
		}
		compact = append(compact, response.OptionNum)
	}
	return compact
}

// RestoreResponses rebuilds the full response array from the compact option
// numbers produced by CompressResponses, looking each answer up in the
// decoded question list. Indices past the compact list stay unanswered.
func (p *Player) RestoreResponses(questions []Question, compact []int) {
	p.Responses = make([]*Answer, len(questions))
	for i, question := range questions {
		if i >= len(compact) {
			break
		}
		if answer, ok := question.Option(compact[i]); ok {
			a := answer
			p.Responses[i] = &a
		}
	}
}

// Merge fills this player's empty response slots from another observation of
// the same logical player. Existing responses always win, so merging is
// idempotent and replaying an older snapshot can never roll progress back.
func (p *Player) Merge(other *Player) {
	if other == nil {
		return
	}
	for i := range p.Responses {
		if i >= len(other.Responses) {
			break
		}
		if p.Responses[i] == nil {
			p.Responses[i] = other.Responses[i]
		}
	}
	if p.CompletionTime == nil {
		p.CompletionTime = other.CompletionTime
	}
}

// FastestTime returns the lowest completion time among the given players.
func FastestTime(players []*Player) *float64 {
	var fastest *float64
	for _, player := range players {
		if player.CompletionTime == nil {
			continue
		}
		if fastest == nil || *player.CompletionTime < *fastest {
			fastest = player.CompletionTime
		}
	}
	return fastest
}
