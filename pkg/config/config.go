package config

import (
	"fmt"
	"time"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/questdb"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/redis"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App          AppConfig          `envPrefix:"APP_"`
	Train        TrainConfig        `envPrefix:"TRAIN_"`
	FeatureStore FeatureStoreConfig `envPrefix:"FEATURE_STORE_"`
	QuestDB      questdb.Config     `envPrefix:"QUESTDB_"`
	Redis        redis.Config       `envPrefix:"REDIS_"`
	EventKafka   EventKafkaConfig   `envPrefix:"EVENT_KAFKA_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name         string `env:"NAME" envDefault:"stock-predictor"`
	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding  string `env:"LOG_ENCODING" envDefault:"json"`
	DataDir      string `env:"DATA_DIR" envDefault:"data"`
	ProcessedDir string `env:"PROCESSED_DIR" envDefault:"data/processed"`
	MetricsDir   string `env:"METRICS_DIR" envDefault:"."`
	Session      string `env:"SESSION" envDefault:"nse_equity"`
}

// TrainConfig holds the model training and tracking settings.
type TrainConfig struct {
	TestFraction       float64 `env:"TEST_FRACTION" envDefault:"0.2"`
	CVFolds            int     `env:"CV_FOLDS" envDefault:"3"`
	Seed               uint64  `env:"SEED" envDefault:"42"`
	TrackingDir        string  `env:"TRACKING_DIR" envDefault:"mlruns"`
	ExperimentPrefix   string  `env:"EXPERIMENT_PREFIX" envDefault:"stock_prediction_v"`
	ModelNamePrefix    string  `env:"MODEL_NAME_PREFIX" envDefault:"stock_predictor_v"`
	RegisterModel      bool    `env:"REGISTER_MODEL" envDefault:"true"`
	NEstimators        []int   `env:"N_ESTIMATORS" envSeparator:"," envDefault:"50"`
	MaxDepth           []int   `env:"MAX_DEPTH" envSeparator:"," envDefault:"10"`
	MinSamplesSplit    []int   `env:"MIN_SAMPLES_SPLIT" envSeparator:"," envDefault:"2"`
	MinSamplesLeaf     []int   `env:"MIN_SAMPLES_LEAF" envSeparator:"," envDefault:"1"`
	MaxParallelFitting int     `env:"MAX_PARALLEL_FITTING" envDefault:"0"`
}

// FeatureStoreConfig holds the feature registry settings.
type FeatureStoreConfig struct {
	Project        string        `env:"PROJECT" envDefault:"stock_features"`
	OnlineTTL      time.Duration `env:"ONLINE_TTL" envDefault:"24h"`
	OfflineEnabled bool          `env:"OFFLINE_ENABLED" envDefault:"true"`
	OnlineEnabled  bool          `env:"ONLINE_ENABLED" envDefault:"true"`
	BatchSize      int           `env:"BATCH_SIZE" envDefault:"5000"`
}

// EventKafkaConfig represents the Kafka configuration for pipeline events.
type EventKafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"stock-pipeline-events"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
