package dao

import "nexledger/core/types"

// RecentProposalLimit bounds the newest-first listing.
const RecentProposalLimit = 5

// ProposalCost is the exact attached payment required to register a
// proposal.
var ProposalCost = types.NEX(1)

// Proposal is an advisory governance record. Deletion tombstones the record
// (Exists=false) while retaining the stored fields for audit; tombstoned
// proposals are excluded from active-facing counts only.
type Proposal struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Creator     [20]byte `json:"creator"`
	YesVotes    uint64   `json:"yesVotes"`
	NoVotes     uint64   `json:"noVotes"`
	Exists      bool     `json:"exists"`
}

// Clone returns a copy of the proposal.
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
