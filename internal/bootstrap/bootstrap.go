package bootstrap

import (
	eventv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/event/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/config"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/questdb"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/redis"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/session"
)

// Bootstrap is the bootstrap for the stock pipeline.
type Bootstrap struct {
	Usecase    Usecase
	Logger     logger.Interface
	Repository Repository
	Config     config.Config
	Session    session.Session

	QuestDB   questdb.QuestDBClient
	Redis     redis.Client
	Publisher eventv1.Publisher
}

// BootstrapConfig is the config for the bootstrap. A nil QuestDB or Redis
// client disables the stores backed by it.
type BootstrapConfig struct {
	Config    config.Config
	QuestDB   questdb.QuestDBClient
	Redis     redis.Client
	Publisher eventv1.Publisher
	Logger    logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(cfg BootstrapConfig) (Bootstrap, error) {
	s, err := session.GetSession(cfg.Config.App.Session)
	if err != nil {
		return Bootstrap{}, err
	}

	b.Config = cfg.Config
	b.Session = s
	b.QuestDB = cfg.QuestDB
	b.Redis = cfg.Redis
	b.Publisher = cfg.Publisher
	b.Logger = cfg.Logger

	b.registerRepository()
	b.registerUsecase()

	return *b, nil
}
