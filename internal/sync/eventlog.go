package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

const (
	TypeBlueprintSaved     = "BlueprintSaved"
	TypeSmartMarksComputed = "SmartMarksComputed"
)

type Event struct {
	Offset    int64  `json:"offset"`
	SiteID    string `json:"site_id"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

// Appender is what the HTTP layer needs to record audit events.
type Appender interface {
	Append(ctx context.Context, e Event) error
}

type Reader interface {
	Since(ctx context.Context, after int64, limit int) ([]Event, error)
}

type EventRepo struct {
	db     *sql.DB
	siteID string
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db, siteID: "local"} }

// NewEvent marshals payload into an event of type typ keyed by key.
func NewEvent(typ, key string, payload interface{}) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.Wrapf(err, "marshal %s payload", typ)
	}
	return Event{Type: typ, Key: key, DataJSON: string(b)}, nil
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = r.siteID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return errors.Wrap(err, "append event")
}

// Since returns events with offset > after, oldest first.
func (r *EventRepo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", site_id, typ, key, data, created_at
		   FROM event_log WHERE "offset" > $1 ORDER BY "offset" ASC LIMIT $2`,
		after, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
