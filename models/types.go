package models

import (
	"encoding/json"
	"time"

	"github.com/danielhkuo/quickly-vote/election"
)

// Request headers
const (
	HeaderCaller   = "X-Caller-Address"
	HeaderAdminKey = "X-Admin-Key"
)

// Request types

type RegisterVoterRequest struct {
	Address string `json:"address"`
}

type RegisterProposalRequest struct {
	Description string `json:"description"`
}

// ProposalID is a pointer so a missing field is not read as proposal 0
type VoteRequest struct {
	ProposalID *int `json:"proposal_id"`
}

// Response types

type RegisterVoterResponse struct {
	Address string `json:"address"`
}

type RegisterProposalResponse struct {
	ProposalID int `json:"proposal_id"`
}

type VoteResponse struct {
	ProposalID int    `json:"proposal_id"`
	Message    string `json:"message"`
}

type PhaseChangeResponse struct {
	Previous election.Phase `json:"previous"`
	Current  election.Phase `json:"current"`
}

type TallyResponse struct {
	Status  election.Phase `json:"status"`
	Winner  ProposalView   `json:"winner"`
	Summary string         `json:"summary"`
}

type ProposalsResponse struct {
	Proposals []ProposalView `json:"proposals"`
}

type VoterResponse struct {
	Address         string `json:"address"`
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID *int   `json:"voted_proposal_id,omitempty"`
}

type VotedProposalResponse struct {
	Address    string `json:"address"`
	ProposalID int    `json:"proposal_id"`
}

type WinnerResponse struct {
	Winner  ProposalView `json:"winner"`
	Summary string       `json:"summary"`
}

type EventsResponse struct {
	Events []EventRecord `json:"events"`
}

// Domain types

type ProposalView struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	VoteCount   uint64 `json:"vote_count"`
}

func NewProposalView(id int, p election.Proposal) ProposalView {
	return ProposalView{ID: id, Description: p.Description, VoteCount: p.VoteCount}
}

func NewVoterResponse(address string, v election.Voter) VoterResponse {
	resp := VoterResponse{
		Address:      address,
		IsRegistered: v.IsRegistered,
		HasVoted:     v.HasVoted,
	}
	if v.HasVoted {
		id := v.VotedProposalID
		resp.VotedProposalID = &id
	}
	return resp
}

// EventRecord is one persisted election event
type EventRecord struct {
	ID         string          `json:"id"`
	Seq        uint64          `json:"seq"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
