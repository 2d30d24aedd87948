package core

import (
	"math/big"
	"sync"

	nexstate "nexledger/core/state"
	"nexledger/core/types"
	"nexledger/crypto"
	"nexledger/native/dao"
	"nexledger/native/lottery"
	"nexledger/observability/metrics"
	"nexledger/storage"
)

const eventFeedCapacity = 256

// Node is the process-wide ledger instance. It owns the state manager, the
// fixed owner identity, and both native engines, and serialises every
// external call behind one lock so each call commits or rolls back as a
// unit. The owner is set at construction and no exposed operation transfers
// it.
type Node struct {
	db    storage.Database
	state *nexstate.Manager

	owner        [20]byte
	lotteryVault [20]byte
	daoVault     [20]byte

	lottery *lottery.Engine
	dao     *dao.Engine
	feed    *eventFeed

	mu sync.Mutex
}

// NewNode wires the ledger together on top of the provided database. The
// owner key fixes the owner address for the lifetime of the store.
func NewNode(db storage.Database, ownerKey *crypto.PrivateKey) (*Node, error) {
	if db == nil || ownerKey == nil {
		return nil, errNilDependency
	}
	n := &Node{
		db:           db,
		state:        nexstate.NewManager(db),
		owner:        ownerKey.PubKey().Address().Raw(),
		lotteryVault: crypto.ModuleAddress("lottery"),
		daoVault:     crypto.ModuleAddress("dao"),
		feed:         newEventFeed(eventFeedCapacity),
	}

	n.lottery = lottery.NewEngine()
	n.lottery.SetState(n.state)
	n.lottery.SetEmitter(n.feed)
	n.lottery.SetVault(n.lotteryVault)
	n.lottery.SetOwner(n.owner)

	n.dao = dao.NewEngine()
	n.dao.SetState(n.state)
	n.dao.SetEmitter(n.feed)
	n.dao.SetVault(n.daoVault)
	n.dao.SetOwner(n.owner)

	return n, nil
}

// SetLotteryEntropy overrides the winner draw source.
func (n *Node) SetLotteryEntropy(entropy lottery.Entropy) {
	n.lottery.SetEntropy(entropy)
}

// SetRevealerReward configures the share of each pot paid to the caller who
// triggers the reveal.
func (n *Node) SetRevealerReward(reward *big.Int) {
	n.lottery.SetRevealerReward(reward)
}

// Owner returns the fixed ledger owner address.
func (n *Node) Owner() crypto.Address {
	return crypto.MustAddressFromBytes(n.owner)
}

// ApplyGenesis mints the configured allocations once, on a fresh store.
// Subsequent startups are no-ops.
func (n *Node) ApplyGenesis(alloc map[[20]byte]*big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.withState(func() error {
		done, err := n.state.GenesisApplied()
		if err != nil || done {
			return err
		}
		for addr, amount := range alloc {
			if err := n.state.Mint(addr, amount); err != nil {
				return err
			}
		}
		return n.state.MarkGenesisApplied()
	})
}

// withState runs fn inside a state transaction. Any error discards every
// write fn made; success commits them all at once. Callers hold n.mu.
func (n *Node) withState(fn func() error) error {
	if err := n.state.Begin(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		n.state.Rollback()
		return err
	}
	return n.state.Commit()
}

// --- Lottery operations ---

// LotteryBuyTicket purchases one ticket for caller, moving the attached
// value into the lottery vault.
func (n *Node) LotteryBuyTicket(caller [20]byte, value *big.Int) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var (
		id    uint64
		count int
	)
	err := n.withState(func() error {
		if err := n.state.Transfer(caller, n.lotteryVault, value); err != nil {
			return err
		}
		var err error
		if id, err = n.lottery.BuyTicket(caller, value); err != nil {
			return err
		}
		count, err = n.lottery.TicketCount()
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.Lottery().ObserveTicketSold(count)
	return id, nil
}

// LotteryRevealWinner closes a full round and distributes the pot.
func (n *Node) LotteryRevealWinner(caller [20]byte) (*lottery.HistoryEntry, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var entry *lottery.HistoryEntry
	err := n.withState(func() error {
		var err error
		entry, err = n.lottery.RevealWinner(caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	prizeNEX, _ := new(big.Float).Quo(
		new(big.Float).SetInt(entry.Prize),
		new(big.Float).SetInt(types.OneNEX),
	).Float64()
	metrics.Lottery().ObserveReveal(prizeNEX)
	return entry, nil
}

// LotteryCurrentPlayers returns the purchase-ordered players of the open
// round.
func (n *Node) LotteryCurrentPlayers() ([][20]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lottery.CurrentPlayers()
}

// LotteryTicketCount returns the number of tickets sold in the current
// round.
func (n *Node) LotteryTicketCount() (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lottery.TicketCount()
}

// LotteryRemainingTickets returns the unsold slots of the current round.
func (n *Node) LotteryRemainingTickets() (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lottery.RemainingTickets()
}

// LotteryIsOpen reports whether the current round accepts tickets.
func (n *Node) LotteryIsOpen() (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lottery.IsOpen()
}

// LotteryCurrentID returns the identifier of the round selling tickets.
func (n *Node) LotteryCurrentID() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lottery.CurrentLotteryID()
}

// LotteryHistory returns the recorded outcome for a round, or the
// zero-value entry when the round was never revealed.
func (n *Node) LotteryHistory(id uint64) (*lottery.HistoryEntry, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lottery.History(id)
}

// --- Governance operations ---

// DAOCreateProposal registers a proposal, moving the attached value into the
// DAO vault before the engine validates it.
func (n *Node) DAOCreateProposal(caller [20]byte, title, description string, value *big.Int) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var id uint64
	err := n.withState(func() error {
		if err := n.state.Transfer(caller, n.daoVault, value); err != nil {
			return err
		}
		var err error
		id, err = n.dao.CreateProposal(caller, title, description, value)
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.DAO().ObserveProposalCreated()
	return id, nil
}

// DAOVote records caller's ballot on a proposal and returns the updated
// record.
func (n *Node) DAOVote(caller [20]byte, id uint64, support bool) (*dao.Proposal, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var proposal *dao.Proposal
	err := n.withState(func() error {
		var err error
		proposal, err = n.dao.Vote(caller, id, support)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.DAO().ObserveVote(support)
	return proposal, nil
}

// DAODeleteProposal tombstones a proposal on behalf of its creator or the
// owner.
func (n *Node) DAODeleteProposal(caller [20]byte, id uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.withState(func() error {
		return n.dao.DeleteProposal(caller, id)
	})
	if err != nil {
		return err
	}
	metrics.DAO().ObserveProposalDeleted()
	return nil
}

// DAOGetProposal returns the stored proposal record, tombstoned or not.
func (n *Node) DAOGetProposal(id uint64) (*dao.Proposal, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dao.GetProposal(id)
}

// DAOHasVoted reports whether voter already cast a ballot on the proposal.
func (n *Node) DAOHasVoted(id uint64, voter [20]byte) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dao.HasVoted(id, voter)
}

// DAORecentProposals returns up to five proposals, newest first.
func (n *Node) DAORecentProposals() ([]*dao.Proposal, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dao.RecentProposals()
}

// DAOAllProposals returns every proposal ranked by yes votes.
func (n *Node) DAOAllProposals() ([]*dao.Proposal, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dao.AllProposals()
}

// DAOProposalCount returns the total ids assigned and the active subset.
func (n *Node) DAOProposalCount() (total uint64, active uint64, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dao.ProposalCount()
}

// --- Accounts and events ---

// BalanceOf returns the spendable balance for addr.
func (n *Node) BalanceOf(addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.BalanceOf(addr)
}

// Events returns the most recent ledger events, oldest first.
func (n *Node) Events() []*types.Event {
	return n.feed.Snapshot()
}
