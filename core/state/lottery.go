package state

import (
	"errors"
	"math/big"

	"nexledger/native/lottery"
)

// LotteryRound loads the round currently selling tickets. A fresh store
// yields the initial open round with id 1.
func (m *Manager) LotteryRound() (*lottery.Round, error) {
	round := &lottery.Round{}
	ok, err := m.getJSON([]byte(lotteryRoundKey), round)
	if err != nil {
		return nil, err
	}
	if !ok {
		return lottery.NewRound(1), nil
	}
	return round, nil
}

// LotteryPutRound persists the current round.
func (m *Manager) LotteryPutRound(round *lottery.Round) error {
	if round == nil {
		return errors.New("state: nil lottery round")
	}
	return m.putJSON([]byte(lotteryRoundKey), round)
}

// LotteryHistoryGet loads the recorded outcome for a revealed round.
func (m *Manager) LotteryHistoryGet(id uint64) (*lottery.HistoryEntry, bool, error) {
	entry := &lottery.HistoryEntry{}
	ok, err := m.getJSON(lotteryHistoryKey(id), entry)
	if err != nil || !ok {
		return nil, false, err
	}
	if entry.Prize == nil {
		entry.Prize = big.NewInt(0)
	}
	return entry, true, nil
}

// LotteryHistoryPut records the outcome of a revealed round. Entries are
// written exactly once; overwriting an existing entry is a programming
// error surfaced to the caller.
func (m *Manager) LotteryHistoryPut(entry *lottery.HistoryEntry) error {
	if entry == nil {
		return errors.New("state: nil lottery history entry")
	}
	if _, ok, err := m.LotteryHistoryGet(entry.LotteryID); err != nil {
		return err
	} else if ok {
		return errors.New("state: lottery history entry already recorded")
	}
	return m.putJSON(lotteryHistoryKey(entry.LotteryID), entry)
}
