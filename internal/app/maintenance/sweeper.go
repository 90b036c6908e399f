package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/logger"
)

const (
	defaultAuditRetentionDays = 90
	defaultContractSpec       = "@daily"
	defaultAuditSpec          = "@daily"
)

// Sweeper coordinates background maintenance tasks such as deactivating
// expired contracts and pruning stale audit logs.
type Sweeper struct {
	contracts *services.ContractService
	audit     *services.AuditService
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	enabled   bool
	retention int

	contractSchedule string
	auditSchedule    string
}

// Option customises the Sweeper.
type Option func(*Sweeper)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(sweeper *Sweeper) {
		if c != nil {
			sweeper.cron = c
		}
	}
}

// WithNow overrides the clock used for expiry comparisons.
func WithNow(now func() time.Time) Option {
	return func(sweeper *Sweeper) {
		if now != nil {
			sweeper.now = now
		}
	}
}

// WithAuditRetentionDays adjusts how long audit logs are retained before cleanup.
func WithAuditRetentionDays(days int) Option {
	return func(sweeper *Sweeper) {
		if days > 0 {
			sweeper.retention = days
		}
	}
}

// WithContractSchedule overrides the cron specification for the contract expiry sweep.
func WithContractSchedule(spec string) Option {
	return func(sweeper *Sweeper) {
		if spec != "" {
			sweeper.contractSchedule = spec
		}
	}
}

// WithAuditSchedule overrides the cron specification for audit retention enforcement.
func WithAuditSchedule(spec string) Option {
	return func(sweeper *Sweeper) {
		if spec != "" {
			sweeper.auditSchedule = spec
		}
	}
}

// NewSweeper constructs a Sweeper with sensible defaults. Any nil dependency results in
// the corresponding sweep being skipped.
func NewSweeper(contracts *services.ContractService, audit *services.AuditService, opts ...Option) *Sweeper {
	sweeper := &Sweeper{
		contracts:        contracts,
		audit:            audit,
		now:              time.Now,
		retention:        defaultAuditRetentionDays,
		contractSchedule: defaultContractSpec,
		auditSchedule:    defaultAuditSpec,
		log:              logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(sweeper)
	}

	if sweeper.cron == nil {
		sweeper.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	sweeper.enabled = sweeper.contracts != nil || sweeper.audit != nil

	return sweeper
}

// Start registers sweep jobs with the cron scheduler and launches it if at least one sweep is enabled.
func (s *Sweeper) Start() error {
	if !s.enabled {
		return nil
	}

	if s.contracts != nil {
		if _, err := s.cron.AddFunc(s.contractSchedule, func() {
			ctx := context.Background()
			if count, err := s.contracts.DeactivateExpired(ctx, s.now().UTC()); err != nil {
				s.log.Warn("contract expiry sweep failed", zap.Error(err))
			} else if count > 0 {
				s.log.Info("deactivated expired contracts", zap.Int64("count", count))
			}
		}); err != nil {
			return err
		}
	}

	if s.audit != nil && s.retention > 0 {
		if _, err := s.cron.AddFunc(s.auditSchedule, func() {
			ctx := context.Background()
			if _, err := s.audit.CleanupOlderThan(ctx, s.retention); err != nil {
				s.log.Warn("audit cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (s *Sweeper) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes all configured sweeps sequentially. Primarily used in tests
// and during graceful shutdown.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if s.contracts != nil {
		if _, err := s.contracts.DeactivateExpired(ctx, s.now().UTC()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if s.audit != nil && s.retention > 0 {
		if _, err := s.audit.CleanupOlderThan(ctx, s.retention); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
