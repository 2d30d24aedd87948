package lottery

import "errors"

// Revert reasons surfaced verbatim to callers. The wording is part of the
// external interface and must not change.
var (
	ErrIncorrectTicketPrice = errors.New("Incorrect ticket price")
	ErrLotteryNotOpen       = errors.New("Lottery is not open")
	ErrLotteryStillOpen     = errors.New("Lottery still open")
)

var errStateNotConfigured = errors.New("lottery: state not configured")
