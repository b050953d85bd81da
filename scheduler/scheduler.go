package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yep.or.id/classadmin/models"
	"yep.or.id/classadmin/pkg/banking"
)

// Scheduler owns the recurring background jobs: the nightly bank sync and
// the hourly purge of dead donor login codes. Every run is recorded in
// cron_job_runs so the ops screen can show job health.
type Scheduler struct {
	db     *gorm.DB
	log    *zap.Logger
	syncer *banking.Syncer
	cron   *cron.Cron
}

func New(db *gorm.DB, log *zap.Logger, syncer *banking.Syncer) *Scheduler {
	return &Scheduler{
		db:     db,
		log:    log,
		syncer: syncer,
		cron:   cron.New(),
	}
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	if s.syncer != nil {
		if _, err := s.cron.AddFunc("0 2 * * *", func() { s.run("bank-sync", s.bankSync) }); err != nil {
			return err
		}
	}
	if _, err := s.cron.AddFunc("@hourly", func() { s.run("otp-purge", s.purgeOTPs) }); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// run wraps a job with run-history bookkeeping.
func (s *Scheduler) run(name string, job func(context.Context) error) {
	row := models.CronJobRun{
		JobName:   name,
		StartedAt: time.Now(),
		Status:    models.CronStatusOK,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	err := job(ctx)
	now := time.Now()
	row.FinishedAt = &now
	if err != nil {
		row.Status = models.CronStatusError
		detail := err.Error()
		row.Detail = &detail
		s.log.Error("cron job failed", zap.String("job", name), zap.Error(err))
	} else {
		s.log.Info("cron job finished", zap.String("job", name),
			zap.Duration("took", now.Sub(row.StartedAt)))
	}

	if err := s.db.Create(&row).Error; err != nil {
		s.log.Warn("persist cron run", zap.Error(err))
	}
}

func (s *Scheduler) bankSync(ctx context.Context) error {
	_, err := s.syncer.SyncAll(ctx)
	return err
}

// purgeOTPs deletes consumed and expired donor login codes.
func (s *Scheduler) purgeOTPs(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("consumed = ? OR expires_at < ?", true, time.Now()).
		Delete(&models.DonorOTP{}).Error
}
