package game

import "errors"

// Validation errors: the command is rejected and session state is left
// unchanged. None of these are fatal.
var (
	ErrEmptyName         = errors.New("player name is empty")
	ErrEmptyWord         = errors.New("word is empty")
	ErrWrongStatus       = errors.New("operation not allowed in current status")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrHostNotRemovable  = errors.New("the host cannot be removed")
	ErrWordLimitReached  = errors.New("player already has enough words")
	ErrTooFewWords       = errors.New("player has not entered enough words")
	ErrNotEnoughPlayers  = errors.New("at least 4 players are required")
	ErrWordsIncomplete   = errors.New("some players are still entering words")
	ErrInvalidTeam       = errors.New("invalid team")
	ErrUnassignedPlayers = errors.New("every player must be assigned to a team")
	ErrEmptyTeam         = errors.New("both teams need at least one player")
	ErrSkipDisabled      = errors.New("skipping is not allowed this phase")
)

// MinPlayers is the smallest roster that can proceed to team assignment.
const MinPlayers = 4
