package waitlist

import (
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/factory"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db             *gorm.DB
	logger         *log.Logger
	submitLimiters factory.RateLimiterFactory
}

// NewWaitlistServiceFactory wires the waitlist stack. submitLimiters may be nil,
// in which case submissions share the router's default limiter.
func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, submitLimiters factory.RateLimiterFactory) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:             db,
		logger:         logger,
		submitLimiters: submitLimiters,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	repository := NewWaitlistRepository(f.db)
	return NewWaitlistService(f.logger, repository)
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService(), f.submitLimiters)
}
