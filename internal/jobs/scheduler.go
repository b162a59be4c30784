package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"esls/api/internal/config"
	"esls/api/internal/repository"
)

// Scheduler runs the periodic maintenance work: audit rows past the retention
// window are pruned daily. Session and code expiry is handled entirely by the
// ephemeral store, so nothing here touches redis.
type Scheduler struct {
	cron  *cron.Cron
	audit *repository.AuditRepository
	cfg   config.AuditConfig
	log   zerolog.Logger
}

func NewScheduler(audit *repository.AuditRepository, cfg config.AuditConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		audit: audit,
		cfg:   cfg,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.audit == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("@daily", s.pruneAudit); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for any in-flight job, bounded to five seconds.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) pruneAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pruned, err := s.audit.PruneOlderThan(ctx, s.cfg.Retention)
	if err != nil {
		s.log.Error().Err(err).Msg("audit prune failed")
		return
	}
	if pruned > 0 {
		s.log.Info().Int64("rows", pruned).Msg("audit rows pruned")
	}
}
