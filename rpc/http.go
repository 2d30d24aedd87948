package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nexledger/core"
	"nexledger/core/types"
	"nexledger/crypto"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
)

// Server exposes the ledger operations over JSON-RPC 2.0. The transport
// trusts the supplied caller identity; authentication belongs to the layer
// in front of it.
type Server struct {
	node   *core.Node
	logger *slog.Logger
}

func NewServer(node *core.Node, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{node: node, logger: logger}
}

// Handler returns the HTTP handler serving RPC on "/" and Prometheus
// metrics on "/metrics".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Start(addr string) error {
	s.logger.Info("starting JSON-RPC server", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeLedgerError surfaces an operation failure. The error text carries the
// revert reason verbatim so clients can match on it.
func writeLedgerError(w http.ResponseWriter, id interface{}, err error) {
	writeError(w, http.StatusOK, id, codeServerError, err.Error(), nil)
}

// handle is the main request handler that routes to specific handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	switch req.Method {
	case "lottery_buyTicket":
		s.handleLotteryBuyTicket(w, req)
	case "lottery_revealWinner":
		s.handleLotteryRevealWinner(w, req)
	case "lottery_getCurrentPlayers":
		s.handleLotteryGetCurrentPlayers(w, req)
	case "lottery_getTicketCount":
		s.handleLotteryGetTicketCount(w, req)
	case "lottery_getRemainingTickets":
		s.handleLotteryGetRemainingTickets(w, req)
	case "lottery_isOpen":
		s.handleLotteryIsOpen(w, req)
	case "lottery_currentLotteryId":
		s.handleLotteryCurrentID(w, req)
	case "lottery_getHistory":
		s.handleLotteryGetHistory(w, req)
	case "dao_createProposal":
		s.handleDAOCreateProposal(w, req)
	case "dao_vote":
		s.handleDAOVote(w, req)
	case "dao_deleteProposal":
		s.handleDAODeleteProposal(w, req)
	case "dao_getProposal":
		s.handleDAOGetProposal(w, req)
	case "dao_hasVoted":
		s.handleDAOHasVoted(w, req)
	case "dao_getRecentProposals":
		s.handleDAOGetRecentProposals(w, req)
	case "dao_getAllProposals":
		s.handleDAOGetAllProposals(w, req)
	case "dao_getProposalCount":
		s.handleDAOGetProposalCount(w, req)
	case "nex_getBalance":
		s.handleGetBalance(w, req)
	case "nex_owner":
		s.handleOwner(w, req)
	case "nex_getEvents":
		s.handleGetEvents(w, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
	}
}

// decodeParams unmarshals the single parameter object expected by every
// parameterised method.
func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("exactly one parameter object expected")
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

func parseCaller(from string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(from)
	if err != nil {
		return [20]byte{}, fmt.Errorf("invalid address: %w", err)
	}
	return addr.Raw(), nil
}

// parseValue converts the attached payment (decimal NEX) into wei. A
// missing value means zero attached.
func parseValue(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	return types.ParseNEX(value)
}

func encodeAddress(addr [20]byte) string {
	return crypto.MustAddressFromBytes(addr).String()
}

// encodeWinner renders a history winner, using the empty string as the
// "none" sentinel for rounds that never revealed.
func encodeWinner(addr [20]byte) string {
	if addr == ([20]byte{}) {
		return ""
	}
	return encodeAddress(addr)
}
