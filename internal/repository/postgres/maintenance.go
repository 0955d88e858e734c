package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultMaintenanceSchedule refreshes planner statistics hourly.
const DefaultMaintenanceSchedule = "@hourly"

const maintenanceRunTimeout = 10 * time.Minute

var maintainedTables = []string{"coins", "headvars", "stakes", "txvars"}

// Analyze refreshes planner statistics of the index tables.
func (r *Repository) Analyze(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("analyze", err, start)
	}()

	for _, table := range maintainedTables {
		if _, err = r.pool.Exec(ctx, "ANALYZE "+table); err != nil {
			return fmt.Errorf("analyze %s: %w", table, err)
		}
	}
	return nil
}

// Maintenance runs Analyze on a cron schedule.
type Maintenance struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewMaintenance(ctx context.Context, repo *Repository, schedule string, logger *zap.Logger) (*Maintenance, error) {
	if schedule == "" {
		schedule = DefaultMaintenanceSchedule
	}
	cl := cronLogger{logger: logger.Sugar()}
	c := cron.New(cron.WithChain(cron.Recover(cl)), cron.WithLogger(cl))

	_, err := c.AddFunc(schedule, func() {
		rctx, cancel := context.WithTimeout(ctx, maintenanceRunTimeout)
		defer cancel()
		if err := repo.Analyze(rctx); err != nil {
			logger.Warn("maintenance run failed", zap.Error(err))
			return
		}
		logger.Debug("maintenance run finished")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule maintenance %q: %w", schedule, err)
	}
	return &Maintenance{cron: c, logger: logger}, nil
}

func (m *Maintenance) Start() {
	m.cron.Start()
	m.logger.Info("maintenance scheduler started")
}

// Stop waits for a running job to finish.
func (m *Maintenance) Stop() {
	<-m.cron.Stop().Done()
}

// cronLogger routes cron's logs into zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
