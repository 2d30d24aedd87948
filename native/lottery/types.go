package lottery

import (
	"math/big"

	"nexledger/core/types"
)

// MaxTickets caps enrollment for a single round. Selling the final ticket
// closes the round in the same operation.
const MaxTickets = 15

var (
	// TicketPrice is the exact attached payment required to buy a ticket.
	TicketPrice = types.NEX(1)
	// PrizeAmount is paid to the drawn winner at reveal time.
	PrizeAmount = types.NEX(10)
)

// Round is the mutable state of the lottery currently selling tickets.
// Players are stored in purchase order and the slice is append-only while
// the round is open.
type Round struct {
	ID      uint64     `json:"id"`
	Open    bool       `json:"open"`
	Players [][20]byte `json:"players"`
}

// NewRound returns an open round with the given identifier and no players.
func NewRound(id uint64) *Round {
	return &Round{ID: id, Open: true}
}

// Clone returns a deep copy of the round.
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	clone := &Round{ID: r.ID, Open: r.Open}
	if len(r.Players) > 0 {
		clone.Players = append([][20]byte(nil), r.Players...)
	}
	return clone
}

// HistoryEntry records the outcome of a revealed round. It is written exactly
// once, when the round closes. Queries for rounds that were never revealed
// return the zero-value entry rather than an error.
type HistoryEntry struct {
	LotteryID uint64   `json:"lotteryId"`
	Winner    [20]byte `json:"winner"`
	Prize     *big.Int `json:"prize"`
	Timestamp int64    `json:"timestamp"`
}

// Clone returns a deep copy of the entry.
func (h *HistoryEntry) Clone() *HistoryEntry {
	if h == nil {
		return nil
	}
	clone := *h
	if h.Prize != nil {
		clone.Prize = new(big.Int).Set(h.Prize)
	}
	return &clone
}
