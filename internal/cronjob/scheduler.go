// Package cronjob runs the periodic maintenance jobs of the API process.
package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ModuleSyncer adds module names used by templates to the vocabulary.
type ModuleSyncer interface {
	Sync(ctx context.Context) ([]string, error)
}

type Scheduler struct {
	cron    *cron.Cron
	modules ModuleSyncer
	log     *zap.Logger
	timeout time.Duration
}

func NewScheduler(modules ModuleSyncer, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		modules: modules,
		log:     log,
		timeout: 5 * time.Minute,
	}
}

// Start registers the module sync job on spec (six fields, seconds first)
// and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.SyncModules); err != nil {
		return err
	}
	s.log.Info("cron scheduler started", zap.String("module_sync", spec))
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SyncModules runs one module vocabulary sync.
func (s *Scheduler) SyncModules() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	added, err := s.modules.Sync(ctx)
	if err != nil {
		s.log.Error("module sync failed", zap.Error(err))
		return
	}
	s.log.Info("module sync completed",
		zap.Strings("added", added),
		zap.Duration("took", time.Since(started)))
}
