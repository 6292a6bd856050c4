package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"txt-trivia/internal/app"
	"txt-trivia/internal/domain"
)

// GameHandler exposes the game flow over JSON for thin clients that keep no
// local model: create a challenge, preview a received message, answer the
// current question.
type GameHandler struct {
	service *app.GameService
}

func NewGameHandler(service *app.GameService) *GameHandler {
	return &GameHandler{service: service}
}

type createRequest struct {
	CategoryID    string `json:"categoryId"`
	ModeID        int    `json:"modeId"`
	ParticipantID string `json:"participantId"`
}

type previewRequest struct {
	URL           string `json:"url"`
	ParticipantID string `json:"participantId"`
}

type answerRequest struct {
	URL           string  `json:"url"`
	ParticipantID string  `json:"participantId"`
	Option        int     `json:"option"`
	Elapsed       float64 `json:"elapsed,omitempty"`
}

type messageBody struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

type gameState struct {
	Phase        app.Phase      `json:"phase"`
	GameID       string         `json:"gameId,omitempty"`
	CategoryID   string         `json:"categoryId,omitempty"`
	Mode         string         `json:"mode,omitempty"`
	CurrentIndex int            `json:"currentIndex"`
	Result       domain.Result  `json:"result,omitempty"`
	Caption      string         `json:"caption,omitempty"`
	Scores       map[string]int `json:"scores,omitempty"`
	Message      *messageBody   `json:"message,omitempty"`
}

// Create starts a new game for the requesting participant. Turn-based games
// come back with the challenge message to transmit; rapid-fire games come
// back without one, ready for local play.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := h.service.NewGame(r.Context(), req.CategoryID, domain.ModeID(req.ModeID), req.ParticipantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	msg, err := h.service.Start(r.Context(), g)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	state := stateOf(g, h.service)
	if msg != nil {
		state.Message = &messageBody{URL: msg.URL, Caption: msg.Caption}
	}
	writeJSON(w, http.StatusOK, state)
}

// Preview derives the UI-facing state of a received message for one
// participant without mutating anything durable.
func (h *GameHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g := h.service.Receive(r.Context(), req.URL, req.ParticipantID)
	if g == nil {
		writeJSON(w, http.StatusOK, gameState{Phase: app.PhaseSetup})
		return
	}
	writeJSON(w, http.StatusOK, stateOf(g, h.service))
}

// Answer records a response on behalf of the participant and, when the game
// reaches a point where the peer must hear about it, returns the outgoing
// message.
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g := h.service.Receive(r.Context(), req.URL, req.ParticipantID)
	if g == nil {
		writeJSON(w, http.StatusOK, gameState{Phase: app.PhaseSetup})
		return
	}

	if !h.service.Answer(r.Context(), g, req.Option) {
		writeJSON(w, http.StatusOK, stateOf(g, h.service))
		return
	}

	timed := g.Mode().Timed()
	lastQuestion := !g.HasNextQuestion()
	h.service.Reveal(g)
	if timed && lastQuestion {
		h.service.CompleteRun(g, req.Elapsed)
	}

	state := stateOf(g, h.service)
	if shouldSend(g, timed) {
		msg, err := h.service.Send(r.Context(), g)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		state.Message = &messageBody{URL: msg.URL, Caption: msg.Caption}
	}
	writeJSON(w, http.StatusOK, state)
}

// A turn-based answer ships immediately; a rapid-fire run ships only when the
// player's own run is over.
func shouldSend(g *domain.Game, timed bool) bool {
	if !timed {
		return true
	}
	active := g.ActivePlayer()
	return active != nil && active.CompletionTime != nil
}

func stateOf(g *domain.Game, service *app.GameService) gameState {
	isChallenger := g.ActivePlayer() != nil && g.ActivePlayer() == g.Challenger()
	scores := make(map[string]int, len(g.Players))
	for _, player := range g.Players {
		scores[player.ID] = player.Score()
	}
	return gameState{
		Phase:        app.PhaseOf(g),
		GameID:       g.ID,
		CategoryID:   g.CategoryID,
		Mode:         g.Mode().Name,
		CurrentIndex: g.CurrentIndex,
		Result:       g.Result(),
		Caption:      service.Caption(g, isChallenger),
		Scores:       scores,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownMode), errors.Is(err, domain.ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrQuestionShortfall):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
