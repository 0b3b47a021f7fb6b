package games

import "errors"

// Error kinds surfaced by the engines. Handlers match with errors.Is and map
// each kind to a distinct HTTP status so clients can tell "insufficient
// funds" from "no active round" from "try again shortly".
var (
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoActiveRound       = errors.New("no active round")
	ErrRoundActive         = errors.New("round already active")
	ErrInvalidTile         = errors.New("invalid tile")
	ErrRateLimited         = errors.New("too many actions")
	ErrInternal            = errors.New("internal error")
)
