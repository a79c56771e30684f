package game

import "errors"

// Protocol violations: the client sent an action the current state does not
// allow. Table state is unchanged when one of these is returned.
var (
	ErrNotStarted        = errors.New("hand not started")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotSeated         = errors.New("not seated at this table")
	ErrAlreadyFolded     = errors.New("already folded")
	ErrCannotCheck       = errors.New("cannot check, call or fold instead")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrBelowMinRaise     = errors.New("raise below minimum")
	ErrUnknownAction     = errors.New("unknown action")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrMinPlayers        = errors.New("need at least 2 players with chips")
)

// ErrInternal marks engine invariant violations. These are bugs: the hand is
// aborted and chips are never silently repaired.
var ErrInternal = errors.New("engine invariant violated")
