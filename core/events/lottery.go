package events

import (
	"math/big"
	"strconv"

	"nexledger/core/types"
	"nexledger/crypto"
)

const (
	TypeLotteryTicketPurchased = "lottery.ticketPurchased"
	TypeLotteryWinnerSelected  = "lottery.winnerSelected"
	TypeLotteryReset           = "lottery.reset"
)

// LotteryTicketPurchased records one ticket sale in the current round.
type LotteryTicketPurchased struct {
	Player    [20]byte
	LotteryID uint64
}

func (LotteryTicketPurchased) EventType() string { return TypeLotteryTicketPurchased }

func (e LotteryTicketPurchased) Event() *types.Event {
	return &types.Event{
		Type: TypeLotteryTicketPurchased,
		Attributes: map[string]string{
			"player":    crypto.NewAddress(crypto.NEXPrefix, e.Player[:]).String(),
			"lotteryId": strconv.FormatUint(e.LotteryID, 10),
		},
	}
}

// LotteryWinnerSelected marks the reveal of a full round.
type LotteryWinnerSelected struct {
	Winner    [20]byte
	LotteryID uint64
	Prize     *big.Int
}

func (LotteryWinnerSelected) EventType() string { return TypeLotteryWinnerSelected }

func (e LotteryWinnerSelected) Event() *types.Event {
	return &types.Event{
		Type: TypeLotteryWinnerSelected,
		Attributes: map[string]string{
			"winner":    crypto.NewAddress(crypto.NEXPrefix, e.Winner[:]).String(),
			"lotteryId": strconv.FormatUint(e.LotteryID, 10),
			"prize":     formatAmount(e.Prize),
		},
	}
}

// LotteryReset announces the freshly opened round that follows a reveal.
type LotteryReset struct {
	NewLotteryID uint64
}

func (LotteryReset) EventType() string { return TypeLotteryReset }

func (e LotteryReset) Event() *types.Event {
	return &types.Event{
		Type: TypeLotteryReset,
		Attributes: map[string]string{
			"newLotteryId": strconv.FormatUint(e.NewLotteryID, 10),
		},
	}
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
