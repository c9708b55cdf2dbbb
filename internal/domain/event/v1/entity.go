package v1

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a pipeline event.
type Type string

const (
	// DatasetPublished is emitted after a processed dataset is written.
	DatasetPublished Type = "dataset_published"
	// FeaturesMaterialized is emitted after a feature view is pushed to the stores.
	FeaturesMaterialized Type = "features_materialized"
	// RunCompleted is emitted after a training run finishes.
	RunCompleted Type = "run_completed"
)

// Event is a pipeline notification keyed by dataset version.
type Event struct {
	Type       Type           `json:"type"`
	Version    string         `json:"version"`
	RequestID  string         `json:"request_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Key is the partitioning key of the event.
func (e Event) Key() []byte {
	return []byte(string(e.Type) + ":" + e.Version)
}

// ToBytes serializes the event.
func (e Event) ToBytes() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers pipeline events.
//
//go:generate mockgen -source=entity.go -destination=mock/publisher_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
