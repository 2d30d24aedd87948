package dao

import "errors"

// Revert reasons surfaced verbatim to callers. The wording is part of the
// external interface and must not change.
var (
	ErrIncorrectProposalCost = errors.New("Must send 1 NEX to create proposal")
	ErrProposalNotFound      = errors.New("Proposal does not exist")
	ErrCreatorCannotVote     = errors.New("Creator cannot vote")
	ErrAlreadyVoted          = errors.New("Already voted")
	ErrNotAuthorized         = errors.New("Only creator or owner can delete")
)

var errStateNotConfigured = errors.New("dao: state not configured")
