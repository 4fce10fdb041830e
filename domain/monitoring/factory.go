package monitoring

import (
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type monitoringControllerFactory struct {
	db     *gorm.DB
	logger *log.Logger
	cache  Cache
}

// NewMonitoringControllerFactory accepts a nil cache; the cache probe is then
// reported as not configured and left out of readiness.
func NewMonitoringControllerFactory(db *gorm.DB, logger *log.Logger, cache Cache) MonitoringControllerFactory {
	return &monitoringControllerFactory{db: db, logger: logger, cache: cache}
}

func (f *monitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache)
}
