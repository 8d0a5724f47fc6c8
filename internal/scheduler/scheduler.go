package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockScout/internal/journal"
	"StockScout/internal/model"
	"StockScout/internal/notifier"
)

// Runner executes one full screening pass. The returned error is the fatal
// acquisition case; per-symbol problems surface inside the report.
type Runner interface {
	Run(ctx context.Context) (*model.RunReport, error)
}

// Sender delivers chat notifications. Failures never abort a run.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler triggers the daily screen on a cron and relays each run's
// results to the notifier and the journal.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	notifier Sender
	journal  journal.Journal
	ctx      context.Context
	log      zerolog.Logger

	mu         sync.Mutex
	lastReport *model.RunReport
}

// New creates a Scheduler.
func New(ctx context.Context, runner Runner, sender Sender, jrn journal.Journal, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		runner:   runner,
		notifier: sender,
		journal:  jrn,
		ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the daily screening task.
func (s *Scheduler) Register(screenCron string) error {
	if _, err := s.cron.AddFunc(screenCron, s.screenTask); err != nil {
		return fmt.Errorf("register screen task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("Scheduler stopped")
}

// RunScreenNow executes the screening task immediately (manual trigger or
// RUN_ON_START).
func (s *Scheduler) RunScreenNow() {
	s.screenTask()
}

// screenTask runs the pipeline and fans the outcome out to the chat and
// the journal. Notification and journal failures are logged, never fatal;
// only the pipeline's own fatal acquisition error stops the task early.
func (s *Scheduler) screenTask() {
	s.log.Info().Msg("Running daily screen")

	report, err := s.runner.Run(s.ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Screening run failed")
		s.trySend(notifier.FormatRunFailure(err))
		return
	}

	s.trySend(notifier.FormatRegime(report.Regime))
	if report.Regime == model.RegimeBearish {
		s.trySend(notifier.FormatBearishNotice())
	} else {
		for i := range report.Decisions {
			d := &report.Decisions[i]
			s.trySend(notifier.FormatDecision(d))
			if err := s.journal.RecordDecision(d); err != nil {
				s.log.Error().Err(err).Str("symbol", d.Symbol).Msg("Journal decision write failed")
			}
		}
		s.trySend(notifier.FormatRunSummary(report))
	}

	if err := s.journal.RecordRun(report); err != nil {
		s.log.Error().Err(err).Str("run_id", report.RunID).Msg("Journal run write failed")
	}

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		s.screenTask()
		return ""
	case "/status":
		s.mu.Lock()
		report := s.lastReport
		s.mu.Unlock()
		if report == nil {
			return "No screening runs yet."
		}
		return notifier.FormatRegime(report.Regime) + "\n\n" + notifier.FormatRunSummary(report)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.notifier.SendWithRetry(s.ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("Send notification failed")
	}
}
