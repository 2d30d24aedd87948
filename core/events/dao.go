package events

import (
	"strconv"

	"nexledger/core/types"
	"nexledger/crypto"
)

const (
	TypeProposalCreated = "dao.proposalCreated"
	TypeVoted           = "dao.voted"
	TypeProposalDeleted = "dao.proposalDeleted"
)

// ProposalCreated records a newly registered proposal.
type ProposalCreated struct {
	ProposalID  uint64
	Title       string
	Description string
	Creator     [20]byte
}

func (ProposalCreated) EventType() string { return TypeProposalCreated }

func (e ProposalCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeProposalCreated,
		Attributes: map[string]string{
			"proposalId":  strconv.FormatUint(e.ProposalID, 10),
			"title":       e.Title,
			"description": e.Description,
			"creator":     crypto.NewAddress(crypto.NEXPrefix, e.Creator[:]).String(),
		},
	}
}

// Voted records a ballot together with the updated tallies.
type Voted struct {
	ProposalID uint64
	Voter      [20]byte
	Support    bool
	YesVotes   uint64
	NoVotes    uint64
}

func (Voted) EventType() string { return TypeVoted }

func (e Voted) Event() *types.Event {
	return &types.Event{
		Type: TypeVoted,
		Attributes: map[string]string{
			"proposalId": strconv.FormatUint(e.ProposalID, 10),
			"voter":      crypto.NewAddress(crypto.NEXPrefix, e.Voter[:]).String(),
			"support":    strconv.FormatBool(e.Support),
			"yesVotes":   strconv.FormatUint(e.YesVotes, 10),
			"noVotes":    strconv.FormatUint(e.NoVotes, 10),
		},
	}
}

// ProposalDeleted records a tombstoned proposal and who removed it.
type ProposalDeleted struct {
	ProposalID uint64
	DeletedBy  [20]byte
}

func (ProposalDeleted) EventType() string { return TypeProposalDeleted }

func (e ProposalDeleted) Event() *types.Event {
	return &types.Event{
		Type: TypeProposalDeleted,
		Attributes: map[string]string{
			"proposalId": strconv.FormatUint(e.ProposalID, 10),
			"deletedBy":  crypto.NewAddress(crypto.NEXPrefix, e.DeletedBy[:]).String(),
		},
	}
}
