package lottery

import (
	"fmt"
	"math/big"
	"time"

	"nexledger/core/events"
)

type ledgerState interface {
	LotteryRound() (*Round, error)
	LotteryPutRound(*Round) error
	LotteryHistoryGet(id uint64) (*HistoryEntry, bool, error)
	LotteryHistoryPut(*HistoryEntry) error
	Transfer(from, to [20]byte, amount *big.Int) error
}

// Engine owns the round lifecycle: ticket sales, winner selection, payout
// split, and permanent per-round history. All mutations of one call are
// applied against the state backend; the caller is responsible for running
// the call inside a transaction so failures leave no partial effects.
type Engine struct {
	state          ledgerState
	emitter        events.Emitter
	entropy        Entropy
	nowFn          func() time.Time
	vault          [20]byte
	owner          [20]byte
	revealerReward *big.Int
}

// NewEngine constructs a lottery engine with default no-op dependencies and
// a crypto/rand draw source.
func NewEngine() *Engine {
	return &Engine{
		emitter:        events.NoopEmitter{},
		entropy:        CryptoEntropy{},
		nowFn:          func() time.Time { return time.Now().UTC() },
		revealerReward: big.NewInt(0),
	}
}

// SetState wires the engine to the state backend providing persistence and
// the transfer primitive.
func (e *Engine) SetState(state ledgerState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetEntropy overrides the draw source. Nil restores crypto/rand.
func (e *Engine) SetEntropy(entropy Entropy) {
	if entropy == nil {
		e.entropy = CryptoEntropy{}
		return
	}
	e.entropy = entropy
}

// SetNowFunc overrides the time source used to stamp history entries. Nil
// restores the default UTC clock.
func (e *Engine) SetNowFunc(now func() time.Time) {
	if now == nil {
		e.nowFn = func() time.Time { return time.Now().UTC() }
		return
	}
	e.nowFn = now
}

// SetVault fixes the module account that collects ticket payments.
func (e *Engine) SetVault(vault [20]byte) { e.vault = vault }

// SetOwner fixes the address receiving the owner share of each payout.
func (e *Engine) SetOwner(owner [20]byte) { e.owner = owner }

// SetRevealerReward configures the share paid to whoever triggers the
// reveal. The owner share shrinks by the same amount so the full pot is
// always distributed.
func (e *Engine) SetRevealerReward(reward *big.Int) {
	if reward == nil {
		e.revealerReward = big.NewInt(0)
		return
	}
	e.revealerReward = new(big.Int).Set(reward)
}

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(event)
}

// BuyTicket appends the caller to the current round after validating the
// attached payment. Filling the final slot closes the round in the same
// call. The round identifier the ticket belongs to is returned on success.
func (e *Engine) BuyTicket(caller [20]byte, payment *big.Int) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errStateNotConfigured
	}
	round, err := e.state.LotteryRound()
	if err != nil {
		return 0, err
	}
	if !round.Open {
		return 0, ErrLotteryNotOpen
	}
	if payment == nil || payment.Cmp(TicketPrice) != 0 {
		return 0, ErrIncorrectTicketPrice
	}

	round.Players = append(round.Players, caller)
	if len(round.Players) >= MaxTickets {
		round.Open = false
	}
	if err := e.state.LotteryPutRound(round); err != nil {
		return 0, err
	}

	e.emit(events.LotteryTicketPurchased{Player: caller, LotteryID: round.ID})
	return round.ID, nil
}

// RevealWinner closes a full round: draws one winner, distributes the whole
// pot between winner, revealer, and owner, records the history entry, and
// opens the next round. Any transfer failure aborts the call; the enclosing
// transaction discards every mutation made so far.
func (e *Engine) RevealWinner(caller [20]byte) (*HistoryEntry, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	round, err := e.state.LotteryRound()
	if err != nil {
		return nil, err
	}
	if round.Open {
		return nil, ErrLotteryStillOpen
	}
	playerCount := len(round.Players)
	if playerCount == 0 {
		return nil, fmt.Errorf("lottery: closed round %d has no players", round.ID)
	}

	idx, err := e.entropy.Draw(playerCount)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= playerCount {
		return nil, fmt.Errorf("lottery: draw index %d out of range [0,%d)", idx, playerCount)
	}
	winner := round.Players[idx]

	total := new(big.Int).Mul(TicketPrice, big.NewInt(int64(playerCount)))
	prize := new(big.Int).Set(PrizeAmount)
	reward := new(big.Int).Set(e.revealerReward)
	ownerShare := new(big.Int).Sub(total, prize)
	ownerShare.Sub(ownerShare, reward)
	if ownerShare.Sign() < 0 {
		return nil, fmt.Errorf("lottery: payout split exceeds collected funds")
	}

	if err := e.state.Transfer(e.vault, winner, prize); err != nil {
		return nil, err
	}
	if reward.Sign() > 0 {
		if err := e.state.Transfer(e.vault, caller, reward); err != nil {
			return nil, err
		}
	}
	if ownerShare.Sign() > 0 {
		if err := e.state.Transfer(e.vault, e.owner, ownerShare); err != nil {
			return nil, err
		}
	}

	entry := &HistoryEntry{
		LotteryID: round.ID,
		Winner:    winner,
		Prize:     prize,
		Timestamp: e.nowFn().Unix(),
	}
	if err := e.state.LotteryHistoryPut(entry); err != nil {
		return nil, err
	}

	next := NewRound(round.ID + 1)
	if err := e.state.LotteryPutRound(next); err != nil {
		return nil, err
	}

	e.emit(events.LotteryWinnerSelected{Winner: winner, LotteryID: entry.LotteryID, Prize: prize})
	e.emit(events.LotteryReset{NewLotteryID: next.ID})
	return entry.Clone(), nil
}

// CurrentPlayers returns the purchase-ordered players of the open round.
func (e *Engine) CurrentPlayers() ([][20]byte, error) {
	round, err := e.currentRound()
	if err != nil {
		return nil, err
	}
	return append([][20]byte(nil), round.Players...), nil
}

// TicketCount returns the number of tickets sold in the current round.
func (e *Engine) TicketCount() (int, error) {
	round, err := e.currentRound()
	if err != nil {
		return 0, err
	}
	return len(round.Players), nil
}

// RemainingTickets returns how many slots the current round still has.
func (e *Engine) RemainingTickets() (int, error) {
	count, err := e.TicketCount()
	if err != nil {
		return 0, err
	}
	return MaxTickets - count, nil
}

// IsOpen reports whether the current round accepts tickets.
func (e *Engine) IsOpen() (bool, error) {
	round, err := e.currentRound()
	if err != nil {
		return false, err
	}
	return round.Open, nil
}

// CurrentLotteryID returns the identifier of the round selling tickets.
func (e *Engine) CurrentLotteryID() (uint64, error) {
	round, err := e.currentRound()
	if err != nil {
		return 0, err
	}
	return round.ID, nil
}

// History returns the recorded outcome for a revealed round. Rounds with no
// recorded reveal yield the zero-value entry, never an error.
func (e *Engine) History(id uint64) (*HistoryEntry, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	entry, ok, err := e.state.LotteryHistoryGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || entry == nil {
		return &HistoryEntry{LotteryID: id, Prize: big.NewInt(0)}, nil
	}
	return entry.Clone(), nil
}

func (e *Engine) currentRound() (*Round, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	return e.state.LotteryRound()
}
