package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/internal/config"
	"github.com/jakechorley/health-ops/pkg/core/services"
	"github.com/jakechorley/health-ops/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Options  services.Options
	Logger   *zap.Logger
	Ctx      context.Context
}

// now returns the current time in UTC, honouring Options.Now
func (a *AppContext) now() time.Time {
	if a.Options.Now != nil {
		return a.Options.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *AppContext) defaultDaysAhead() int {
	if a.Cfg != nil && a.Cfg.Compliance.DefaultDaysAhead != nil {
		return *a.Cfg.Compliance.DefaultDaysAhead
	}
	return services.DefaultComplianceDaysAhead
}
