// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventKind names one of the committed state changes an election reports.
type EventKind string

const (
	EventVoterRegistered      EventKind = "voter_registered"
	EventWorkflowStatusChange EventKind = "workflow_status_change"
	EventProposalRegistered   EventKind = "proposal_registered"
	EventVoted                EventKind = "voted"
)

// Event is a fact about a committed mutation. Only the fields relevant to
// Kind are set; Payload returns exactly those.
type Event struct {
	Seq        uint64
	Kind       EventKind
	Voter      common.Address
	ProposalID int
	Previous   Phase
	Current    Phase
	OccurredAt time.Time
}

// Payload returns the kind-specific fields of the event.
func (e Event) Payload() map[string]any {
	switch e.Kind {
	case EventVoterRegistered:
		return map[string]any{"voter": e.Voter.Hex()}
	case EventWorkflowStatusChange:
		return map[string]any{"previous": e.Previous.String(), "current": e.Current.String()}
	case EventProposalRegistered:
		return map[string]any{"proposal_id": e.ProposalID}
	case EventVoted:
		return map[string]any{"voter": e.Voter.Hex(), "proposal_id": e.ProposalID}
	}
	return map[string]any{}
}

// EventSink receives events synchronously, in commit order, while the
// election lock is held. Implementations must not call back into the
// election that published the event.
type EventSink interface {
	Publish(Event)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Publish(Event) {}

// LogSink writes each event as a structured log line.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(ev Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	args := []any{"kind", string(ev.Kind), "seq", ev.Seq}
	switch ev.Kind {
	case EventVoterRegistered:
		args = append(args, "voter", ev.Voter.Hex())
	case EventWorkflowStatusChange:
		args = append(args, "previous", ev.Previous.String(), "current", ev.Current.String())
	case EventProposalRegistered:
		args = append(args, "proposal_id", ev.ProposalID)
	case EventVoted:
		args = append(args, "voter", ev.Voter.Hex(), "proposal_id", ev.ProposalID)
	}
	logger.Info("election event", args...)
}

// MultiSink fans events out to several sinks in order.
type MultiSink []EventSink

func (m MultiSink) Publish(ev Event) {
	for _, sink := range m {
		sink.Publish(ev)
	}
}

// MemorySink keeps every event it receives. Safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (s *MemorySink) Publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// Events returns a copy of the received events.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
