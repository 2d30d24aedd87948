package rpc

import (
	"net/http"
)

type lotteryTxParams struct {
	From  string `json:"from"`
	Value string `json:"value,omitempty"`
}

type lotteryHistoryParams struct {
	LotteryID uint64 `json:"lotteryId"`
}

type buyTicketResponse struct {
	LotteryID uint64 `json:"lotteryId"`
}

type revealResponse struct {
	Winner    string `json:"winner"`
	LotteryID uint64 `json:"lotteryId"`
	Prize     string `json:"prize"`
	Timestamp int64  `json:"timestamp"`
}

func (s *Server) handleLotteryBuyTicket(w http.ResponseWriter, req *RPCRequest) {
	var params lotteryTxParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseCaller(params.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	value, err := parseValue(params.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := s.node.LotteryBuyTicket(caller, value)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, buyTicketResponse{LotteryID: id})
}

func (s *Server) handleLotteryRevealWinner(w http.ResponseWriter, req *RPCRequest) {
	var params lotteryTxParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseCaller(params.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	entry, err := s.node.LotteryRevealWinner(caller)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, revealResponse{
		Winner:    encodeWinner(entry.Winner),
		LotteryID: entry.LotteryID,
		Prize:     entry.Prize.String(),
		Timestamp: entry.Timestamp,
	})
}

func (s *Server) handleLotteryGetCurrentPlayers(w http.ResponseWriter, req *RPCRequest) {
	players, err := s.node.LotteryCurrentPlayers()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	encoded := make([]string, len(players))
	for i, player := range players {
		encoded[i] = encodeAddress(player)
	}
	writeResult(w, req.ID, encoded)
}

func (s *Server) handleLotteryGetTicketCount(w http.ResponseWriter, req *RPCRequest) {
	count, err := s.node.LotteryTicketCount()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, count)
}

func (s *Server) handleLotteryGetRemainingTickets(w http.ResponseWriter, req *RPCRequest) {
	remaining, err := s.node.LotteryRemainingTickets()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, remaining)
}

func (s *Server) handleLotteryIsOpen(w http.ResponseWriter, req *RPCRequest) {
	open, err := s.node.LotteryIsOpen()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, open)
}

func (s *Server) handleLotteryCurrentID(w http.ResponseWriter, req *RPCRequest) {
	id, err := s.node.LotteryCurrentID()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, id)
}

func (s *Server) handleLotteryGetHistory(w http.ResponseWriter, req *RPCRequest) {
	var params lotteryHistoryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	entry, err := s.node.LotteryHistory(params.LotteryID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, revealResponse{
		Winner:    encodeWinner(entry.Winner),
		LotteryID: entry.LotteryID,
		Prize:     entry.Prize.String(),
		Timestamp: entry.Timestamp,
	})
}
