package domain

import "errors"

var (
	// ErrUnknownMode is returned when a mode index falls outside the mode table.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrQuestionShortfall indicates the question source returned fewer
	// questions than the mode requires; such a game must not be played.
	ErrQuestionShortfall = errors.New("question source returned too few questions")
	// ErrCategoryNotFound indicates the requested category has no questions.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrNoActivePlayer is returned when an operation needs a local player and
	// none has been derived for this device yet.
	ErrNoActivePlayer = errors.New("no active player in game")
)
