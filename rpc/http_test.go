package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"nexledger/core"
	"nexledger/core/types"
	"nexledger/crypto"
	"nexledger/native/lottery"
	"nexledger/storage"
)

type fixedEntropy struct{}

func (fixedEntropy) Draw(n int) (int, error) { return 0, nil }

func testAddr(b byte) [20]byte {
	var a [20]byte
	a[19] = b
	return a
}

func bech(b byte) string {
	return crypto.MustAddressFromBytes(testAddr(b)).String()
}

func newTestServer(t *testing.T) (*httptest.Server, *core.Node) {
	t.Helper()
	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	node, err := core.NewNode(storage.NewMemDB(), key)
	require.NoError(t, err)
	node.SetLotteryEntropy(fixedEntropy{})

	server := httptest.NewServer(NewServer(node, nil).Handler())
	t.Cleanup(server.Close)
	return server, node
}

func genesisNEX(accounts map[byte]int64) map[[20]byte]*big.Int {
	alloc := make(map[[20]byte]*big.Int, len(accounts))
	for b, n := range accounts {
		alloc[testAddr(b)] = types.NEX(n)
	}
	return alloc
}

func call(t *testing.T, server *httptest.Server, method string, params ...interface{}) (*RPCResponse, int) {
	t.Helper()
	raw := make([]json.RawMessage, 0, len(params))
	for _, p := range params {
		encoded, err := json.Marshal(p)
		require.NoError(t, err)
		raw = append(raw, encoded)
	}
	body, err := json.Marshal(RPCRequest{JSONRPC: "2.0", Method: method, Params: raw, ID: 1})
	require.NoError(t, err)

	resp, err := http.Post(server.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := &RPCResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(decoded))
	return decoded, resp.StatusCode
}

func resultInto(t *testing.T, resp *RPCResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestMethodNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, status := call(t, server, "lottery_unknown")
	require.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestInvalidParams(t *testing.T) {
	server, _ := newTestServer(t)

	// no parameter object at all
	resp, status := call(t, server, "lottery_buyTicket")
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)

	// malformed address
	resp, status = call(t, server, "lottery_buyTicket", lotteryTxParams{From: "not-an-address", Value: "1"})
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestBuyTicketRevertReason(t *testing.T) {
	server, node := newTestServer(t)
	require.NoError(t, node.ApplyGenesis(genesisNEX(map[byte]int64{1: 5})))

	resp, status := call(t, server, "lottery_buyTicket", lotteryTxParams{From: bech(1), Value: "2"})
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeServerError, resp.Error.Code)
	require.Equal(t, "Incorrect ticket price", resp.Error.Message)
}

func TestLotteryRoundOverRPC(t *testing.T) {
	server, node := newTestServer(t)
	alloc := map[byte]int64{42: 1}
	for i := byte(1); i <= lottery.MaxTickets; i++ {
		alloc[i] = 2
	}
	require.NoError(t, node.ApplyGenesis(genesisNEX(alloc)))

	for i := byte(1); i <= lottery.MaxTickets; i++ {
		resp, status := call(t, server, "lottery_buyTicket", lotteryTxParams{From: bech(i), Value: "1"})
		require.Equal(t, http.StatusOK, status)
		require.Nil(t, resp.Error)
		var result buyTicketResponse
		resultInto(t, resp, &result)
		require.Equal(t, uint64(1), result.LotteryID)
	}

	resp, _ := call(t, server, "lottery_isOpen")
	var open bool
	resultInto(t, resp, &open)
	require.False(t, open)

	resp, _ = call(t, server, "lottery_getCurrentPlayers")
	var players []string
	resultInto(t, resp, &players)
	require.Len(t, players, lottery.MaxTickets)
	require.Equal(t, bech(1), players[0])

	resp, status := call(t, server, "lottery_revealWinner", lotteryTxParams{From: bech(42)})
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)
	var reveal revealResponse
	resultInto(t, resp, &reveal)
	require.Equal(t, bech(1), reveal.Winner)
	require.Equal(t, uint64(1), reveal.LotteryID)
	require.Equal(t, types.NEX(10).String(), reveal.Prize)
	require.NotZero(t, reveal.Timestamp)

	resp, _ = call(t, server, "lottery_currentLotteryId")
	var id uint64
	resultInto(t, resp, &id)
	require.Equal(t, uint64(2), id)

	resp, _ = call(t, server, "lottery_getRemainingTickets")
	var remaining int
	resultInto(t, resp, &remaining)
	require.Equal(t, lottery.MaxTickets, remaining)
}

func TestRevealWinnerWhileOpen(t *testing.T) {
	server, _ := newTestServer(t)

	resp, status := call(t, server, "lottery_revealWinner", lotteryTxParams{From: bech(1)})
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, "Lottery still open", resp.Error.Message)
}

func TestHistorySentinelOverRPC(t *testing.T) {
	server, _ := newTestServer(t)

	resp, status := call(t, server, "lottery_getHistory", lotteryHistoryParams{LotteryID: 9})
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)
	var entry revealResponse
	resultInto(t, resp, &entry)
	require.Equal(t, "", entry.Winner)
	require.Equal(t, "0", entry.Prize)
	require.Zero(t, entry.Timestamp)
}

func TestDAOFlowOverRPC(t *testing.T) {
	server, node := newTestServer(t)
	require.NoError(t, node.ApplyGenesis(genesisNEX(map[byte]int64{1: 3, 2: 1})))

	resp, status := call(t, server, "dao_createProposal", daoCreateParams{
		From: bech(1), Title: "raise the cap", Description: "details", Value: "1",
	})
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)
	var created map[string]uint64
	resultInto(t, resp, &created)
	require.Equal(t, uint64(0), created["proposalId"])

	// creator votes are refused with the canonical reason
	resp, _ = call(t, server, "dao_vote", daoVoteParams{From: bech(1), ProposalID: 0, Support: true})
	require.NotNil(t, resp.Error)
	require.Equal(t, "Creator cannot vote", resp.Error.Message)

	resp, _ = call(t, server, "dao_vote", daoVoteParams{From: bech(2), ProposalID: 0, Support: true})
	require.Nil(t, resp.Error)
	var updated proposalResponse
	resultInto(t, resp, &updated)
	require.Equal(t, uint64(1), updated.YesVotes)

	resp, _ = call(t, server, "dao_hasVoted", daoHasVotedParams{ProposalID: 0, Voter: bech(2)})
	var voted bool
	resultInto(t, resp, &voted)
	require.True(t, voted)

	resp, _ = call(t, server, "dao_deleteProposal", daoDeleteParams{From: bech(9), ProposalID: 0})
	require.NotNil(t, resp.Error)
	require.Equal(t, "Only creator or owner can delete", resp.Error.Message)

	resp, _ = call(t, server, "dao_deleteProposal", daoDeleteParams{From: bech(1), ProposalID: 0})
	require.Nil(t, resp.Error)

	resp, _ = call(t, server, "dao_getProposal", daoIDParams{ProposalID: 0})
	var record proposalResponse
	resultInto(t, resp, &record)
	require.False(t, record.Exists)
	require.Equal(t, "raise the cap", record.Title)

	resp, _ = call(t, server, "dao_getProposalCount")
	var count proposalCountResponse
	resultInto(t, resp, &count)
	require.Equal(t, uint64(1), count.Total)
	require.Equal(t, uint64(0), count.Active)
}

func TestDAOQueriesOverRPC(t *testing.T) {
	server, node := newTestServer(t)
	require.NoError(t, node.ApplyGenesis(genesisNEX(map[byte]int64{1: 10, 2: 1})))

	for i := 0; i < 7; i++ {
		resp, _ := call(t, server, "dao_createProposal", daoCreateParams{
			From: bech(1), Title: fmt.Sprintf("proposal-%d", i), Description: "d", Value: "1",
		})
		require.Nil(t, resp.Error)
	}
	resp, _ := call(t, server, "dao_vote", daoVoteParams{From: bech(2), ProposalID: 3, Support: true})
	require.Nil(t, resp.Error)

	resp, _ = call(t, server, "dao_getRecentProposals")
	var recent []proposalResponse
	resultInto(t, resp, &recent)
	require.Len(t, recent, 5)
	require.Equal(t, uint64(6), recent[0].ID)
	require.Equal(t, uint64(2), recent[4].ID)

	resp, _ = call(t, server, "dao_getAllProposals")
	var all []proposalResponse
	resultInto(t, resp, &all)
	require.Len(t, all, 7)
	require.Equal(t, uint64(3), all[0].ID)
}

func TestGetBalanceAndOwner(t *testing.T) {
	server, node := newTestServer(t)
	require.NoError(t, node.ApplyGenesis(genesisNEX(map[byte]int64{1: 5})))

	resp, _ := call(t, server, "nex_getBalance", balanceParams{Address: bech(1)})
	require.Nil(t, resp.Error)
	var bal balanceResponse
	resultInto(t, resp, &bal)
	require.Equal(t, types.NEX(5).String(), bal.BalanceNEX)

	resp, _ = call(t, server, "nex_getBalance", balanceParams{Address: bech(99)})
	resultInto(t, resp, &bal)
	require.Equal(t, "0", bal.BalanceNEX)

	resp, _ = call(t, server, "nex_owner")
	var owner string
	resultInto(t, resp, &owner)
	require.Equal(t, node.Owner().String(), owner)
}

func TestGetEventsOverRPC(t *testing.T) {
	server, node := newTestServer(t)
	require.NoError(t, node.ApplyGenesis(genesisNEX(map[byte]int64{1: 2})))

	resp, _ := call(t, server, "lottery_buyTicket", lotteryTxParams{From: bech(1), Value: "1"})
	require.Nil(t, resp.Error)

	resp, _ = call(t, server, "nex_getEvents")
	var events []struct {
		Type       string            `json:"type"`
		Attributes map[string]string `json:"attributes"`
	}
	resultInto(t, resp, &events)
	require.Len(t, events, 1)
	require.Equal(t, "lottery.ticketPurchased", events[0].Type)
	require.Equal(t, bech(1), events[0].Attributes["player"])
}

func TestMalformedRequests(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL, "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decoded := &RPCResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(decoded))
	require.NotNil(t, decoded.Error)
	require.Equal(t, codeParseError, decoded.Error.Code)

	resp, err = http.Post(server.URL, "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
