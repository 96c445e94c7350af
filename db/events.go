// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const appendTimeout = 5 * time.Second

// EventLog appends election events to the election_event table. It is an
// election.EventSink.
type EventLog struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewEventLog(db *sql.DB, logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{db: db, logger: logger}
}

// Publish appends ev. Failures are logged; the election has already
// committed the change.
func (l *EventLog) Publish(ev election.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	if err := l.Append(ctx, ev); err != nil {
		l.logger.Error("failed to persist election event", "seq", ev.Seq, "kind", string(ev.Kind), "error", err)
	}
}

func (l *EventLog) Append(ctx context.Context, ev election.Event) error {
	payload, err := json.Marshal(ev.Payload())
	if err != nil {
		return errors.Wrap(err, "encode event payload")
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO election_event (id, seq, kind, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), int64(ev.Seq), string(ev.Kind), string(payload), ev.OccurredAt.UnixMilli())
	return errors.Wrapf(err, "insert event %d", ev.Seq)
}

// List returns events with seq greater than afterSeq in commit order, at
// most limit of them.
func (l *EventLog) List(ctx context.Context, afterSeq uint64, limit int) ([]models.EventRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, seq, kind, payload, occurred_at
		FROM election_event
		WHERE seq > $1
		ORDER BY seq, occurred_at
		LIMIT $2
	`, int64(afterSeq), limit)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	events := []models.EventRecord{}
	for rows.Next() {
		var (
			rec        models.EventRecord
			seq        int64
			payload    string
			occurredAt int64
		)
		if err := rows.Scan(&rec.ID, &seq, &rec.Kind, &payload, &occurredAt); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		rec.Seq = uint64(seq)
		rec.Payload = json.RawMessage(payload)
		rec.OccurredAt = time.UnixMilli(occurredAt).UTC()
		events = append(events, rec)
	}
	return events, errors.Wrap(rows.Err(), "iterate events")
}
