package state

import (
	"encoding/hex"
	"fmt"
)

// Key layout for the ledger state. Every record is JSON-encoded under a
// readable prefix so operators can inspect the store directly.
const (
	accountPrefix        = "acct/"
	lotteryRoundKey      = "lottery/round"
	lotteryHistoryPrefix = "lottery/history/"
	daoCountKey          = "dao/count"
	genesisKey           = "genesis/applied"
	daoProposalPrefix    = "dao/proposal/"
	daoVotePrefix        = "dao/vote/"
)

func accountKey(addr [20]byte) []byte {
	return []byte(accountPrefix + hex.EncodeToString(addr[:]))
}

func lotteryHistoryKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", lotteryHistoryPrefix, id))
}

func daoProposalKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", daoProposalPrefix, id))
}

func daoVoteKey(id uint64, voter [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", daoVotePrefix, id, hex.EncodeToString(voter[:])))
}
