package stats

import (
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/circuitbreaker"
	"gorm.io/gorm"
)

type StatsServiceFactory interface {
	CreateService() StatsService
	CreateController() *router.RESTController
}

type DefaultStatsServiceFactory struct {
	db            *gorm.DB
	logger        *log.Logger
	breakerConfig *circuitbreaker.Config
}

// NewStatsServiceFactory wires the stats stack. A nil breakerConfig uses the
// circuit breaker defaults.
func NewStatsServiceFactory(db *gorm.DB, logger *log.Logger, breakerConfig *circuitbreaker.Config) StatsServiceFactory {
	return &DefaultStatsServiceFactory{
		db:            db,
		logger:        logger,
		breakerConfig: breakerConfig,
	}
}

func (f *DefaultStatsServiceFactory) CreateService() StatsService {
	cfg := circuitbreaker.DefaultConfig()
	if f.breakerConfig != nil {
		copied := *f.breakerConfig
		cfg = &copied
	}

	if cfg.OnStateChange == nil {
		logger := f.logger
		cfg.OnStateChange = func(from, to circuitbreaker.CircuitState) {
			logger.Warn("Stats store circuit changed state", "from", from.String(), "to", to.String())
		}
	}

	repository := NewStatsRepository(f.db)
	return NewStatsService(f.logger, repository, circuitbreaker.NewCircuitBreaker(cfg))
}

func (f *DefaultStatsServiceFactory) CreateController() *router.RESTController {
	return NewStatsController(f.CreateService())
}
