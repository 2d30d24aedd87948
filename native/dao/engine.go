package dao

import (
	"math/big"
	"sort"

	"nexledger/core/events"
)

type registryState interface {
	DAONextProposalID() (uint64, error)
	DAOProposalCount() (uint64, error)
	DAOGetProposal(id uint64) (*Proposal, bool, error)
	DAOPutProposal(*Proposal) error
	DAOHasVoted(id uint64, voter [20]byte) (bool, error)
	DAOMarkVoted(id uint64, voter [20]byte) error
	Transfer(from, to [20]byte, amount *big.Int) error
}

// Engine owns the proposal lifecycle: pay-to-propose registration, vote
// tallying with double-vote and self-vote prevention, and creator/owner
// gated deletion. Like the lottery engine it expects the caller to run each
// mutating operation inside a state transaction.
type Engine struct {
	state   registryState
	emitter events.Emitter
	vault   [20]byte
	owner   [20]byte
}

// NewEngine constructs a governance engine with default no-op dependencies.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the state backend.
func (e *Engine) SetState(state registryState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetVault fixes the module account that collects proposal fees.
func (e *Engine) SetVault(vault [20]byte) { e.vault = vault }

// SetOwner fixes the ledger owner, who may delete any proposal and receives
// swept proposal fees.
func (e *Engine) SetOwner(owner [20]byte) { e.owner = owner }

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(event)
}

// CreateProposal registers a new proposal after validating the attached
// payment. Identifiers are sequential starting at 0. The fee is swept from
// the module vault to the owner so no funds strand in the registry.
func (e *Engine) CreateProposal(caller [20]byte, title, description string, payment *big.Int) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errStateNotConfigured
	}
	if payment == nil || payment.Cmp(ProposalCost) != 0 {
		return 0, ErrIncorrectProposalCost
	}
	if err := e.state.Transfer(e.vault, e.owner, ProposalCost); err != nil {
		return 0, err
	}

	id, err := e.state.DAONextProposalID()
	if err != nil {
		return 0, err
	}
	proposal := &Proposal{
		ID:          id,
		Title:       title,
		Description: description,
		Creator:     caller,
		Exists:      true,
	}
	if err := e.state.DAOPutProposal(proposal); err != nil {
		return 0, err
	}

	e.emit(events.ProposalCreated{ProposalID: id, Title: title, Description: description, Creator: caller})
	return id, nil
}

// Vote records the caller's ballot. Creators can never vote on their own
// proposal and each address votes at most once per proposal, permanently.
func (e *Engine) Vote(caller [20]byte, id uint64, support bool) (*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	proposal, ok, err := e.state.DAOGetProposal(id)
	if err != nil {
		return nil, err
	}
	if !ok || proposal == nil || !proposal.Exists {
		return nil, ErrProposalNotFound
	}
	if proposal.Creator == caller {
		return nil, ErrCreatorCannotVote
	}
	voted, err := e.state.DAOHasVoted(id, caller)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	if err := e.state.DAOMarkVoted(id, caller); err != nil {
		return nil, err
	}
	if support {
		proposal.YesVotes++
	} else {
		proposal.NoVotes++
	}
	if err := e.state.DAOPutProposal(proposal); err != nil {
		return nil, err
	}

	e.emit(events.Voted{
		ProposalID: id,
		Voter:      caller,
		Support:    support,
		YesVotes:   proposal.YesVotes,
		NoVotes:    proposal.NoVotes,
	})
	return proposal.Clone(), nil
}

// DeleteProposal tombstones the proposal. Only the creator or the ledger
// owner may delete; the record stays retrievable for audit.
func (e *Engine) DeleteProposal(caller [20]byte, id uint64) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	proposal, ok, err := e.state.DAOGetProposal(id)
	if err != nil {
		return err
	}
	if !ok || proposal == nil || !proposal.Exists {
		return ErrProposalNotFound
	}
	if proposal.Creator != caller && caller != e.owner {
		return ErrNotAuthorized
	}
	proposal.Exists = false
	if err := e.state.DAOPutProposal(proposal); err != nil {
		return err
	}

	e.emit(events.ProposalDeleted{ProposalID: id, DeletedBy: caller})
	return nil
}

// GetProposal returns the stored record, tombstoned or not. Identifiers that
// were never assigned yield the zero-value proposal; callers check Exists
// and bounds themselves.
func (e *Engine) GetProposal(id uint64) (*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	proposal, ok, err := e.state.DAOGetProposal(id)
	if err != nil {
		return nil, err
	}
	if !ok || proposal == nil {
		return &Proposal{ID: id}, nil
	}
	return proposal.Clone(), nil
}

// HasVoted reports whether the voter has already cast a ballot on the
// proposal.
func (e *Engine) HasVoted(id uint64, voter [20]byte) (bool, error) {
	if e == nil || e.state == nil {
		return false, errStateNotConfigured
	}
	return e.state.DAOHasVoted(id, voter)
}

// RecentProposals returns up to RecentProposalLimit proposals ordered by
// descending id, newest first. Tombstoned records are included; the caller
// filters on Exists when only active proposals matter.
func (e *Engine) RecentProposals() ([]*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	total, err := e.state.DAOProposalCount()
	if err != nil {
		return nil, err
	}
	result := make([]*Proposal, 0, RecentProposalLimit)
	for id := total; id > 0 && len(result) < RecentProposalLimit; id-- {
		proposal, ok, err := e.state.DAOGetProposal(id - 1)
		if err != nil {
			return nil, err
		}
		if !ok || proposal == nil {
			continue
		}
		result = append(result, proposal.Clone())
	}
	return result, nil
}

// AllProposals returns every proposal ever created, tombstoned included,
// sorted by yesVotes descending with ties broken by ascending id so the
// ranking is deterministic.
func (e *Engine) AllProposals() ([]*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	total, err := e.state.DAOProposalCount()
	if err != nil {
		return nil, err
	}
	result := make([]*Proposal, 0, total)
	for id := uint64(0); id < total; id++ {
		proposal, ok, err := e.state.DAOGetProposal(id)
		if err != nil {
			return nil, err
		}
		if !ok || proposal == nil {
			continue
		}
		result = append(result, proposal.Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].YesVotes != result[j].YesVotes {
			return result[i].YesVotes > result[j].YesVotes
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ProposalCount returns the number of ids ever assigned and how many of
// those records are still active.
func (e *Engine) ProposalCount() (total uint64, active uint64, err error) {
	if e == nil || e.state == nil {
		return 0, 0, errStateNotConfigured
	}
	total, err = e.state.DAOProposalCount()
	if err != nil {
		return 0, 0, err
	}
	for id := uint64(0); id < total; id++ {
		proposal, ok, err := e.state.DAOGetProposal(id)
		if err != nil {
			return 0, 0, err
		}
		if ok && proposal != nil && proposal.Exists {
			active++
		}
	}
	return total, active, nil
}
