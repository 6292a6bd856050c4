// Package codec converts between the in-memory game and the compact payload
// embedded in a message URL. The wire format uses single-letter keys to keep
// payloads inside message-size limits; only this app's own past and future
// versions ever decode it, so the mapping is stable but private.
package codec

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"txt-trivia/internal/domain"
)

const (
	messageScheme = "https"
	messageHost   = "txt-trivia.app"
	messagePath   = "/game"
	payloadKey    = "d"
)

// CompactGame is the wire shape of a game. Players carry option numbers
// instead of full responses, and transient local state (active flag, running
// countdown) never leaves the device.
type CompactGame struct {
	ID            string           `json:"id"`
	Category      string           `json:"c"`
	CurrentIndex  int              `json:"i"`
	Mode          int              `json:"m"`
	NudgeIndex    *int             `json:"n,omitempty"`
	Players       []CompactPlayer  `json:"p"`
	Questions     []CompactQuestion `json:"q"`
	SentTime      int64            `json:"t"`
	TimeRemaining *float64         `json:"r,omitempty"`
	SenderID      string           `json:"s,omitempty"`
}

type CompactPlayer struct {
	ID             string   `json:"id"`
	CompletionTime *float64 `json:"t,omitempty"`
	LastReveal     *int     `json:"l,omitempty"`
	Responses      []int    `json:"m"`
}

type CompactQuestion struct {
	Difficulty *int            `json:"d,omitempty"`
	Options    []CompactAnswer `json:"o"`
	Text       string          `json:"x"`
}

type CompactAnswer struct {
	Correct int    `json:"c"`
	Num     int    `json:"i"`
	Text    string `json:"x"`
}

// Compress reduces a game to its wire shape.
func Compress(g *domain.Game) CompactGame {
	compact := CompactGame{
		ID:            g.ID,
		Category:      g.CategoryID,
		CurrentIndex:  g.CurrentIndex,
		Mode:          int(g.ModeID),
		NudgeIndex:    g.NudgeIndex,
		SentTime:      g.SentTime.Unix(),
		TimeRemaining: g.TimeRemaining,
		SenderID:      g.SenderID,
	}

	compact.Players = make([]CompactPlayer, 0, len(g.Players))
	for _, player := range g.Players {
		compact.Players = append(compact.Players, CompactPlayer{
			ID:             player.ID,
			CompletionTime: player.CompletionTime,
			LastReveal:     player.LastReveal,
			Responses:      player.CompressResponses(),
		})
	}

	compact.Questions = make([]CompactQuestion, 0, len(g.Questions))
	for _, question := range g.Questions {
		compact.Questions = append(compact.Questions, compressQuestion(question))
	}
	return compact
}

func compressQuestion(q domain.Question) CompactQuestion {
	out := CompactQuestion{Text: q.Text}
	if q.Difficulty != domain.DifficultyUnknown {
		level := q.Difficulty
		out.Difficulty = &level
	}
	out.Options = make([]CompactAnswer, 0, len(q.Options))
	for _, opt := range q.Options {
		answer := CompactAnswer{Num: opt.OptionNum, Text: opt.Text}
		if opt.Correct {
			answer.Correct = 1
		}
		out.Options = append(out.Options, answer)
	}
	return out
}

// EncodeMessage serializes a prepared game into the message URL. Failing to
// encode a locally built game is a programming defect, so the error is
// surfaced rather than swallowed.
func EncodeMessage(g *domain.Game) (string, error) {
	data, err := json.Marshal(Compress(g))
	if err != nil {
		return "", fmt.Errorf("encode game %s: %w", g.ID, err)
	}

	query := url.Values{}
	query.Set(payloadKey, string(data))
	messageURL := url.URL{
		Scheme:   messageScheme,
		Host:     messageHost,
		Path:     messagePath,
		RawQuery: query.Encode(),
	}
	return messageURL.String(), nil
}

// DecodeMessage reconstructs a game from a message URL. Malformed or missing
// payloads yield no game: the caller falls back to the game-creation flow
// instead of surfacing an error.
func DecodeMessage(rawURL string) (*domain.Game, bool) {
	if rawURL == "" {
		return nil, false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	payload := parsed.Query().Get(payloadKey)
	if payload == "" {
		return nil, false
	}

	var compact CompactGame
	if err := json.Unmarshal([]byte(payload), &compact); err != nil {
		return nil, false
	}
	return expand(compact)
}

func expand(compact CompactGame) (*domain.Game, bool) {
	if _, ok := domain.ModeByID(domain.ModeID(compact.Mode)); !ok {
		return nil, false
	}

	g := &domain.Game{
		ID:            compact.ID,
		CategoryID:    compact.Category,
		ModeID:        domain.ModeID(compact.Mode),
		CurrentIndex:  compact.CurrentIndex,
		NudgeIndex:    compact.NudgeIndex,
		SentTime:      time.Unix(compact.SentTime, 0),
		TimeRemaining: compact.TimeRemaining,
		SenderID:      compact.SenderID,
	}

	g.Questions = make([]domain.Question, 0, len(compact.Questions))
	for _, question := range compact.Questions {
		g.Questions = append(g.Questions, expandQuestion(question))
	}

	if len(compact.Players) > domain.MaxPlayers {
		return nil, false
	}
	g.Players = make([]*domain.Player, 0, len(compact.Players))
	for _, player := range compact.Players {
		expanded := domain.NewPlayer(player.ID, len(g.Questions))
		expanded.CompletionTime = player.CompletionTime
		expanded.LastReveal = player.LastReveal
		expanded.RestoreResponses(g.Questions, player.Responses)
		g.Players = append(g.Players, expanded)
	}
	return g, true
}

func expandQuestion(compact CompactQuestion) domain.Question {
	question := domain.Question{
		Text:       compact.Text,
		Difficulty: domain.DifficultyUnknown,
	}
	if compact.Difficulty != nil {
		question.Difficulty = *compact.Difficulty
	}
	question.Options = make([]domain.Answer, 0, len(compact.Options))
	for _, opt := range compact.Options {
		question.Options = append(question.Options, domain.Answer{
			Correct:   opt.Correct == 1,
			OptionNum: opt.Num,
			Text:      opt.Text,
		})
	}
	return question
}
