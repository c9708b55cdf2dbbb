// Package pipeline wires the clients a pipeline command needs and runs it.
package pipeline

import (
	"context"
	"fmt"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/bootstrap"
	datasetv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/dataset/v1"
	eventv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/event/v1"
	eventInfra "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/kafka/event"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/config"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/questdb"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/redis"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/util"
)

// Command names a pipeline stage.
type Command string

// Pipeline commands
const (
	Preprocess  Command = "preprocess"
	Materialize Command = "materialize"
	Train       Command = "train"
	Migrate     Command = "migrate"
)

// DefaultVersion is used when no version argument is given.
const DefaultVersion = "0"

// Pipeline holds the bootstrap of one command and the clients it opened.
type Pipeline struct {
	Bootstrap bootstrap.Bootstrap
	Logger    logger.Interface

	questdb   questdb.QuestDBClient
	redis     redis.Client
	publisher eventv1.Publisher
}

// ParseVersion returns the dataset version of the command arguments.
func ParseVersion(args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("expected at most one version argument, got %d", len(args))
	}
	version := DefaultVersion
	if len(args) == 1 {
		version = args[0]
	}
	if !datasetv1.IsValidVersion(version) {
		return "", fmt.Errorf("invalid version %q, expected one of 0, 1", version)
	}
	return version, nil
}

// Context returns ctx tagged with a fresh request id, the command and the version.
func Context(ctx context.Context, command Command, version string) context.Context {
	ctx = util.WithRequestID(ctx, "")
	ctx = util.WithCommand(ctx, string(command))
	return util.WithVersion(ctx, version)
}

// NewLogger builds the logger configured in cfg.
func NewLogger(cfg config.AppConfig) (*logger.Logger, error) {
	return logger.NewLogger(
		logger.WithLoggingLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithEncoding(cfg.LogEncoding),
	)
}

// New connects the clients command needs and initializes the bootstrap.
func New(ctx context.Context, cfg config.Config, command Command, log logger.Interface) (*Pipeline, error) {
	p := &Pipeline{Logger: log}

	if err := p.initClients(ctx, cfg, command); err != nil {
		p.Close(ctx)
		return nil, err
	}

	b := &bootstrap.Bootstrap{}
	initialized, err := b.Init(bootstrap.BootstrapConfig{
		Config:    cfg,
		QuestDB:   p.questdb,
		Redis:     p.redis,
		Publisher: p.publisher,
		Logger:    log,
	})
	if err != nil {
		p.Close(ctx)
		return nil, err
	}
	p.Bootstrap = initialized

	return p, nil
}

func (p *Pipeline) initClients(ctx context.Context, cfg config.Config, command Command) error {
	p.publisher = eventInfra.NopPublisher{}
	if cfg.EventKafka.Enabled {
		p.publisher = eventInfra.NewPublisher(cfg.EventKafka, p.Logger)
	}

	switch command {
	case Materialize:
		if cfg.FeatureStore.OfflineEnabled {
			if err := p.initQuestDB(ctx, cfg.QuestDB); err != nil {
				return err
			}
		}
		if cfg.FeatureStore.OnlineEnabled {
			if err := p.initRedis(ctx, cfg.Redis); err != nil {
				return err
			}
		}
	case Train:
		if cfg.Train.RegisterModel {
			// registration failures are not fatal, and neither is a missing registry
			if err := p.initRedis(ctx, cfg.Redis); err != nil {
				p.Logger.WarnContext(ctx, "model registry unavailable, models will not be registered", logger.NewField("error", err.Error()))
			}
		}
	case Migrate:
		return p.initQuestDB(ctx, cfg.QuestDB)
	}
	return nil
}

func (p *Pipeline) initQuestDB(ctx context.Context, cfg questdb.Config) error {
	client, err := questdb.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize QuestDB client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return fmt.Errorf("failed to ping QuestDB: %w", err)
	}
	p.questdb = client
	return nil
}

func (p *Pipeline) initRedis(ctx context.Context, cfg redis.Config) error {
	client := redis.NewClient(p.Logger, &cfg)
	if err := client.Connect(ctx); err != nil {
		p.Logger.WarnContext(ctx, "failed to connect to redis", logger.NewField("error", err.Error()))
		if !client.Reconnect(ctx) {
			return err
		}
	}
	p.redis = client
	return nil
}

// QuestDB returns the QuestDB client, nil unless the command needed one.
func (p *Pipeline) QuestDB() questdb.QuestDBClient {
	return p.questdb
}

// Close releases every client the pipeline opened.
func (p *Pipeline) Close(ctx context.Context) {
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			p.Logger.WarnContext(ctx, "failed to close event publisher", logger.NewField("error", err.Error()))
		}
	}
	if p.redis != nil {
		if err := p.redis.Disconnect(ctx); err != nil {
			p.Logger.WarnContext(ctx, "failed to disconnect redis", logger.NewField("error", err.Error()))
		}
	}
	if p.questdb != nil {
		p.questdb.Close()
	}
}
