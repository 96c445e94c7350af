// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
)

// Voter is the per-identity record. VotedProposalID is only meaningful when
// HasVoted is true.
type Voter struct {
	IsRegistered    bool `json:"is_registered"`
	HasVoted        bool `json:"has_voted"`
	VotedProposalID int  `json:"voted_proposal_id"`
}

// Proposal is a candidate option. Its id is its index in the election.
type Proposal struct {
	Description string `json:"description"`
	VoteCount   uint64 `json:"vote_count"`
}

// Policy selects between the behaviours deployments of this workflow
// disagree on.
type Policy struct {
	// MinDescriptionLength rejects descriptions with this many runes or
	// fewer. Zero disables the check.
	MinDescriptionLength int
	TieBreak             TieBreaker
	// ViewsRequireRegistration restricts proposal and voter views to
	// registered callers.
	ViewsRequireRegistration bool
}

func DefaultPolicy() Policy {
	return Policy{
		MinDescriptionLength:     10,
		TieBreak:                 SimpleMax{},
		ViewsRequireRegistration: true,
	}
}

type Option func(*Election)

func WithPolicy(p Policy) Option {
	return func(e *Election) {
		if p.TieBreak == nil {
			p.TieBreak = SimpleMax{}
		}
		e.policy = p
	}
}

func WithSink(s EventSink) Option {
	return func(e *Election) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithClock sets the time source used for event timestamps and tie-breaks.
func WithClock(now func() time.Time) Option {
	return func(e *Election) {
		if now != nil {
			e.now = now
		}
	}
}

// Election is the whole state of one vote. Every exported method runs under
// a single mutex, so operations are totally ordered and a failed call
// leaves no trace.
type Election struct {
	mu sync.Mutex

	owner     common.Address
	status    Phase
	voters    map[common.Address]Voter
	proposals []Proposal
	winner    int
	tallied   bool
	seq       uint64

	policy Policy
	sink   EventSink
	now    func() time.Time
}

// New creates an election in RegisteringVoters owned by owner.
func New(owner common.Address, opts ...Option) (*Election, error) {
	if owner == (common.Address{}) {
		return nil, fmt.Errorf("owner: %w", ErrInvalidIdentity)
	}
	e := &Election{
		owner:  owner,
		status: RegisteringVoters,
		voters: make(map[common.Address]Voter),
		policy: DefaultPolicy(),
		sink:   NopSink{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Guards. Each returns before any mutation happens.

func (e *Election) requireOwner(caller common.Address) error {
	if caller != e.owner {
		return fmt.Errorf("%s is not the owner: %w", caller.Hex(), ErrUnauthorized)
	}
	return nil
}

func (e *Election) requirePhase(required Phase) error {
	if e.status != required {
		return fmt.Errorf("status is %s, need %s: %w", e.status, required, ErrInvalidPhaseTransition)
	}
	return nil
}

func (e *Election) requireRegistered(caller common.Address) error {
	if !e.voters[caller].IsRegistered {
		return fmt.Errorf("%s is not a registered voter: %w", caller.Hex(), ErrUnauthorized)
	}
	return nil
}

func (e *Election) checkAdvance(caller common.Address, target, required Phase) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if err := e.requirePhase(required); err != nil {
		return err
	}
	if !required.CanTransition(target) {
		return fmt.Errorf("%s -> %s: %w", required, target, ErrInvalidPhaseTransition)
	}
	return nil
}

// publish stamps and emits one event. Callers hold e.mu and have already
// applied the mutation the event describes.
func (e *Election) publish(ev Event) {
	e.seq++
	ev.Seq = e.seq
	ev.OccurredAt = e.now()
	e.sink.Publish(ev)
}

func (e *Election) setStatus(target Phase) {
	prev := e.status
	e.status = target
	e.publish(Event{Kind: EventWorkflowStatusChange, Previous: prev, Current: target})
}

func (e *Election) advancePhase(caller common.Address, target, required Phase) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkAdvance(caller, target, required); err != nil {
		return err
	}
	e.setStatus(target)
	return nil
}

func (e *Election) StartProposalsRegistration(caller common.Address) error {
	return e.advancePhase(caller, ProposalsRegistrationStarted, RegisteringVoters)
}

// EndProposalsRegistration closes proposal submission. It fails with
// ErrNoProposals when nothing was proposed, since no winner could exist.
func (e *Election) EndProposalsRegistration(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkAdvance(caller, ProposalsRegistrationEnded, ProposalsRegistrationStarted); err != nil {
		return err
	}
	if len(e.proposals) == 0 {
		return ErrNoProposals
	}
	e.setStatus(ProposalsRegistrationEnded)
	return nil
}

func (e *Election) StartVotingSession(caller common.Address) error {
	return e.advancePhase(caller, VotingSessionStarted, ProposalsRegistrationEnded)
}

func (e *Election) EndVotingSession(caller common.Address) error {
	return e.advancePhase(caller, VotingSessionEnded, VotingSessionStarted)
}

// TallyVotes computes the winner with the configured tie-break and moves to
// VotesTallied. The winner and the phase change commit together.
func (e *Election) TallyVotes(caller common.Address) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkAdvance(caller, VotesTallied, VotingSessionEnded); err != nil {
		return 0, err
	}
	winner, err := Tally(e.proposals, e.policy.TieBreak, TallyContext{Caller: caller, Timestamp: e.now()})
	if err != nil {
		return 0, err
	}

	e.winner = winner
	e.tallied = true
	e.setStatus(VotesTallied)
	return winner, nil
}

// Register marks identity as a voter. A second registration of the same
// identity is rejected rather than ignored.
func (e *Election) Register(caller, identity common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if err := e.requirePhase(RegisteringVoters); err != nil {
		return err
	}
	if identity == (common.Address{}) {
		return fmt.Errorf("voter: %w", ErrInvalidIdentity)
	}
	if e.voters[identity].IsRegistered {
		return fmt.Errorf("%s: %w", identity.Hex(), ErrAlreadyRegistered)
	}

	e.voters[identity] = Voter{IsRegistered: true}
	e.publish(Event{Kind: EventVoterRegistered, Voter: identity})
	return nil
}

// RegisterProposal appends a proposal and returns its id.
func (e *Election) RegisterProposal(caller common.Address, description string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireRegistered(caller); err != nil {
		return 0, err
	}
	if err := e.requirePhase(ProposalsRegistrationStarted); err != nil {
		return 0, err
	}
	if limit := e.policy.MinDescriptionLength; limit > 0 && utf8.RuneCountInString(description) <= limit {
		return 0, fmt.Errorf("need more than %d characters: %w", limit, ErrDescriptionTooShort)
	}

	id := len(e.proposals)
	e.proposals = append(e.proposals, Proposal{Description: description})
	e.publish(Event{Kind: EventProposalRegistered, ProposalID: id})
	return id, nil
}

// Vote records caller's single vote for proposalID.
func (e *Election) Vote(caller common.Address, proposalID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireRegistered(caller); err != nil {
		return err
	}
	voter := e.voters[caller]
	if voter.HasVoted {
		return fmt.Errorf("%s: %w", caller.Hex(), ErrAlreadyVoted)
	}
	if err := e.requirePhase(VotingSessionStarted); err != nil {
		return err
	}
	if proposalID < 0 || proposalID >= len(e.proposals) {
		return fmt.Errorf("proposal %d: %w", proposalID, ErrInvalidProposal)
	}

	voter.HasVoted = true
	voter.VotedProposalID = proposalID
	e.voters[caller] = voter
	e.proposals[proposalID].VoteCount++
	e.publish(Event{Kind: EventVoted, Voter: caller, ProposalID: proposalID})
	return nil
}
