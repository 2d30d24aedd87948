package rpc

import (
	"net/http"
)

type balanceParams struct {
	Address string `json:"address"`
}

type balanceResponse struct {
	Address    string `json:"address"`
	BalanceNEX string `json:"balanceNEX"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, req *RPCRequest) {
	var params balanceParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	addr, err := parseCaller(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	balance, err := s.node.BalanceOf(addr)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, balanceResponse{Address: params.Address, BalanceNEX: balance.String()})
}

func (s *Server) handleOwner(w http.ResponseWriter, req *RPCRequest) {
	writeResult(w, req.ID, s.node.Owner().String())
}

func (s *Server) handleGetEvents(w http.ResponseWriter, req *RPCRequest) {
	writeResult(w, req.ID, s.node.Events())
}
