package cleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultSweepEvery = 10 * time.Minute
	defaultMaxAge     = time.Hour

	purgeTimeout = time.Minute
)

// AnalysisPurger deletes anonymous analyses older than the cutoff.
type AnalysisPurger interface {
	DeleteAnonymousOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Config struct {
	// Dir is the upload scratch directory to sweep.
	Dir string
	// SweepEvery is the sweep cadence; MaxAge is how old a file must be
	// before the sweeper may delete it.
	SweepEvery time.Duration
	MaxAge     time.Duration
	// RetentionDays > 0 enables the daily purge of anonymous analyses.
	RetentionDays int
}

// Janitor runs the periodic housekeeping: stale temp uploads swept on a
// short cadence, anonymous record retention enforced daily. Both jobs are
// best-effort; a failed run waits for the next tick.
type Janitor struct {
	cfg    Config
	purger AnalysisPurger
	cron   *cron.Cron
	logger *zap.Logger
}

func NewJanitor(cfg Config, purger AnalysisPurger, logger *zap.Logger) *Janitor {
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = defaultSweepEvery
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{cfg: cfg, purger: purger, cron: cron.New(), logger: logger}
}

func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.cfg.SweepEvery), func() { j.sweep() }); err != nil {
		return fmt.Errorf("scheduling sweep: %w", err)
	}
	if j.cfg.RetentionDays > 0 && j.purger != nil {
		if _, err := j.cron.AddFunc("@daily", j.purge); err != nil {
			return fmt.Errorf("scheduling purge: %w", err)
		}
	}
	j.cron.Start()
	j.logger.Info("janitor started",
		zap.Duration("sweep_every", j.cfg.SweepEvery),
		zap.Duration("max_age", j.cfg.MaxAge),
		zap.Int("retention_days", j.cfg.RetentionDays))
	return nil
}

// Stop halts the schedule and waits for any running job to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// sweep removes files in the upload dir whose mtime predates the age cap.
// Going by mtime keeps it safe to run while fresh uploads are being written.
func (j *Janitor) sweep() (removed int) {
	cutoff := time.Now().Add(-j.cfg.MaxAge)

	entries, err := os.ReadDir(j.cfg.Dir)
	if err != nil {
		j.logger.Warn("sweep: reading upload dir", zap.Error(err))
		return 0
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.cfg.Dir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			j.logger.Warn("sweep: removing stale upload", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		j.logger.Info("swept stale uploads", zap.Int("removed", removed))
	}
	return removed
}

func (j *Janitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -j.cfg.RetentionDays)
	n, err := j.purger.DeleteAnonymousOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("retention purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.logger.Info("purged anonymous analyses", zap.Int64("removed", n))
	}
}
