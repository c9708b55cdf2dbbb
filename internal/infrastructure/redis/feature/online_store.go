package feature

import (
	"context"
	"encoding/json"
	"math"
	"time"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/file"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/redis"
)

// Record is the online representation of a feature row. Unfilled values are null.
type Record struct {
	Stock          string              `json:"stock"`
	EventTimestamp string              `json:"event_timestamp"`
	Features       map[string]*float64 `json:"features"`
	Target         int                 `json:"target"`
}

// OnlineStore keeps the freshest row of every stock in Redis.
type OnlineStore struct {
	redisclient redis.Client
	logger      logger.Interface
	prefix      string
	project     string
}

// NewOnlineStore creates an online store writing keys <prefix><project>:<view>:<stock>.
func NewOnlineStore(redisclient redis.Client, log logger.Interface, prefix, project string) *OnlineStore {
	return &OnlineStore{
		redisclient: redisclient,
		logger:      log,
		prefix:      prefix,
		project:     project,
	}
}

// Ensure OnlineStore implements OnlineStore interface
var _ featurev1.OnlineStore = (*OnlineStore)(nil)

// Key returns the Redis key of a stock in a view.
func (s *OnlineStore) Key(view featurev1.FeatureView, stock string) string {
	return redis.Key(s.prefix, s.project, view.Name, stock)
}

// Put stores row as the current features of its stock for ttl.
func (s *OnlineStore) Put(ctx context.Context, view featurev1.FeatureView, row featurev1.Row, ttl time.Duration) error {
	key := s.Key(view, row.Stock)

	buf, err := json.Marshal(NewRecord(view, row))
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("key", key))
		return errors.NewTracer("online_store_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, key, buf, ttl); err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("key", key))
		return errors.NewTracer("online_store_error").Wrap(err)
	}

	s.logger.DebugContext(ctx, "online features stored",
		logger.NewField("key", key),
		logger.NewField("event_timestamp", row.Timestamp),
	)
	return nil
}

// NewRecord projects row onto the float schema fields of view.
func NewRecord(view featurev1.FeatureView, row featurev1.Row) Record {
	features := make(map[string]*float64, len(view.Schema))
	for _, field := range view.Schema {
		if field.Dtype != featurev1.Float64 {
			continue
		}
		v, ok := row.Feature(field.Name)
		if !ok || math.IsNaN(v) {
			features[field.Name] = nil
			continue
		}
		features[field.Name] = &v
	}

	return Record{
		Stock:          row.Stock,
		EventTimestamp: file.FormatTimestamp(row.Timestamp),
		Features:       features,
		Target:         row.Target,
	}
}
