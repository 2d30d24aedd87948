package state

import (
	"errors"
	"strconv"

	"nexledger/native/dao"
)

// DAOProposalCount returns how many proposal ids have been assigned.
func (m *Manager) DAOProposalCount() (uint64, error) {
	raw, ok, err := m.get([]byte(daoCountKey))
	if err != nil || !ok {
		return 0, err
	}
	count, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, errors.New("state: corrupt dao proposal counter")
	}
	return count, nil
}

// DAONextProposalID allocates the next sequential proposal id, starting
// at 0.
func (m *Manager) DAONextProposalID() (uint64, error) {
	count, err := m.DAOProposalCount()
	if err != nil {
		return 0, err
	}
	if err := m.put([]byte(daoCountKey), []byte(strconv.FormatUint(count+1, 10))); err != nil {
		return 0, err
	}
	return count, nil
}

// DAOGetProposal loads a proposal by id.
func (m *Manager) DAOGetProposal(id uint64) (*dao.Proposal, bool, error) {
	proposal := &dao.Proposal{}
	ok, err := m.getJSON(daoProposalKey(id), proposal)
	if err != nil || !ok {
		return nil, false, err
	}
	return proposal, true, nil
}

// DAOPutProposal persists a proposal record.
func (m *Manager) DAOPutProposal(proposal *dao.Proposal) error {
	if proposal == nil {
		return errors.New("state: nil proposal")
	}
	return m.putJSON(daoProposalKey(proposal.ID), proposal)
}

// DAOHasVoted reports whether voter has a recorded ballot on the proposal.
func (m *Manager) DAOHasVoted(id uint64, voter [20]byte) (bool, error) {
	_, ok, err := m.get(daoVoteKey(id, voter))
	return ok, err
}

// DAOMarkVoted permanently records that voter cast a ballot on the
// proposal. The marker survives proposal deletion.
func (m *Manager) DAOMarkVoted(id uint64, voter [20]byte) error {
	return m.put(daoVoteKey(id, voter), []byte{1})
}
