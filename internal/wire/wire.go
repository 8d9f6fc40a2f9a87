// Package wire provides dependency injection for the retrobot application.
// It builds the service graph from a resolved configuration.
package wire

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/retrobot/internal/adapters/console"
	"github.com/example/retrobot/internal/adapters/github"
	"github.com/example/retrobot/internal/adapters/mustache"
	"github.com/example/retrobot/internal/adapters/slack"
	"github.com/example/retrobot/internal/adapters/sqlite"
	"github.com/example/retrobot/internal/app"
	"github.com/example/retrobot/internal/config"
	"github.com/example/retrobot/internal/db"
	"github.com/example/retrobot/internal/ports/primary"
	"github.com/example/retrobot/internal/ports/secondary"
)

// Container holds the services for one CLI invocation.
type Container struct {
	RetroService primary.RetroService
	AuditService primary.AuditService // nil when the audit trail is disabled
	Logger       secondary.Logger

	logger   *console.Logger
	database *sql.DB
}

// New builds the full service graph. Callers must Close the container.
func New(cfg *config.Config, logOut io.Writer) (*Container, error) {
	if cfg.NoColor {
		color.NoColor = true
	}

	c := &Container{logger: console.NewLogger(logOut)}
	c.Logger = c.logger
	if cfg.LogFile != "" {
		if err := c.logger.OpenFile(cfg.LogFile); err != nil {
			return nil, err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		c.Close()
		return nil, err
	}

	tracker, err := github.NewTracker(github.Config{
		Token:  cfg.GitHub.Token,
		Owner:  cfg.GitHub.Owner,
		Repo:   cfg.GitHub.Repo,
		APIURL: cfg.GitHub.APIURL,
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	// Left as a nil interface when disabled so the executor skips auditing
	var auditLog secondary.AuditLog
	if cfg.AuditDB != "" {
		c.database, err = db.Open(cfg.AuditDB)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to open audit database: %w", err)
		}
		auditRepo := sqlite.NewAuditRepository(c.database)
		auditLog = sqlite.NewAuditWriterAdapter(auditRepo)
		c.AuditService = app.NewAuditService(auditRepo)
	}

	executor := app.NewEffectExecutor(tracker, slack.NewNotifier(0), c.logger, auditLog)
	c.RetroService = app.NewRetroService(
		tracker,
		mustache.NewRenderer(),
		executor,
		c.logger,
		func() time.Time { return time.Now().In(loc) },
	)
	return c, nil
}

// OpenAudit builds only the audit service, for commands that never reach the tracker.
func OpenAudit(path string) (primary.AuditService, func() error, error) {
	if path == "" {
		return nil, nil, errors.New("audit trail is disabled (set audit_db or --audit-db)")
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	return app.NewAuditService(sqlite.NewAuditRepository(database)), database.Close, nil
}

// Close releases the audit database and the log file.
func (c *Container) Close() error {
	var errs []error
	if c.database != nil {
		errs = append(errs, c.database.Close())
	}
	errs = append(errs, c.logger.Close())
	return errors.Join(errs...)
}
