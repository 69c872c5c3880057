package processor

import (
	"context"

	"shopkart/background-worker-service/internal/app/background-worker/service"
	"shopkart/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler запускает пересчет рейтингов по расписанию
type CronScheduler struct {
	cron       *cron.Cron
	reconciler service.RatingReconciler
}

func NewCronScheduler(reconciler service.RatingReconciler) *CronScheduler {
	c := cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))

	return &CronScheduler{
		cron:       c,
		reconciler: reconciler,
	}
}

// Start регистрирует задачу, запускает планировщик и сразу выполняет один пересчет
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.run(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Cron scheduler started")

	s.run(ctx)
	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	<-s.cron.Stop().Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

func (s *CronScheduler) run(ctx context.Context) {
	if err := s.reconciler.Reconcile(ctx); err != nil {
		logger.Error().Err(err).Msg("Rating reconciliation failed")
	}
}

// cronLogger направляет сообщения cron в zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
