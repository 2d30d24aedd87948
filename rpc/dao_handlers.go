package rpc

import (
	"net/http"

	"nexledger/native/dao"
)

type daoCreateParams struct {
	From        string `json:"from"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
}

type daoVoteParams struct {
	From       string `json:"from"`
	ProposalID uint64 `json:"proposalId"`
	Support    bool   `json:"support"`
}

type daoDeleteParams struct {
	From       string `json:"from"`
	ProposalID uint64 `json:"proposalId"`
}

type daoIDParams struct {
	ProposalID uint64 `json:"proposalId"`
}

type daoHasVotedParams struct {
	ProposalID uint64 `json:"proposalId"`
	Voter      string `json:"voter"`
}

type proposalResponse struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
	YesVotes    uint64 `json:"yesVotes"`
	NoVotes     uint64 `json:"noVotes"`
	Exists      bool   `json:"exists"`
}

type proposalCountResponse struct {
	Total  uint64 `json:"total"`
	Active uint64 `json:"active"`
}

func encodeProposal(p *dao.Proposal) proposalResponse {
	creator := ""
	if p.Creator != ([20]byte{}) {
		creator = encodeAddress(p.Creator)
	}
	return proposalResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Creator:     creator,
		YesVotes:    p.YesVotes,
		NoVotes:     p.NoVotes,
		Exists:      p.Exists,
	}
}

func encodeProposals(proposals []*dao.Proposal) []proposalResponse {
	encoded := make([]proposalResponse, len(proposals))
	for i, p := range proposals {
		encoded[i] = encodeProposal(p)
	}
	return encoded
}

func (s *Server) handleDAOCreateProposal(w http.ResponseWriter, req *RPCRequest) {
	var params daoCreateParams
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
	id, err := s.node.DAOCreateProposal(caller, params.Title, params.Description, value)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"proposalId": id})
}

func (s *Server) handleDAOVote(w http.ResponseWriter, req *RPCRequest) {
	var params daoVoteParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseCaller(params.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	proposal, err := s.node.DAOVote(caller, params.ProposalID, params.Support)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, encodeProposal(proposal))
}

func (s *Server) handleDAODeleteProposal(w http.ResponseWriter, req *RPCRequest) {
	var params daoDeleteParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseCaller(params.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.node.DAODeleteProposal(caller, params.ProposalID); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

func (s *Server) handleDAOGetProposal(w http.ResponseWriter, req *RPCRequest) {
	var params daoIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	proposal, err := s.node.DAOGetProposal(params.ProposalID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, encodeProposal(proposal))
}

func (s *Server) handleDAOHasVoted(w http.ResponseWriter, req *RPCRequest) {
	var params daoHasVotedParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	voter, err := parseCaller(params.Voter)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	voted, err := s.node.DAOHasVoted(params.ProposalID, voter)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, voted)
}

func (s *Server) handleDAOGetRecentProposals(w http.ResponseWriter, req *RPCRequest) {
	proposals, err := s.node.DAORecentProposals()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, encodeProposals(proposals))
}

func (s *Server) handleDAOGetAllProposals(w http.ResponseWriter, req *RPCRequest) {
	proposals, err := s.node.DAOAllProposals()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, encodeProposals(proposals))
}

func (s *Server) handleDAOGetProposalCount(w http.ResponseWriter, req *RPCRequest) {
	total, active, err := s.node.DAOProposalCount()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, proposalCountResponse{Total: total, Active: active})
}
