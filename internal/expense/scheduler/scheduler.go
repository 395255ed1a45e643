package scheduler

import (
	"context"
	"sync"
	"time"

	authdomain "caspometer-backend/internal/auth/domain"
	"caspometer-backend/internal/expense/domain"
	"caspometer-backend/pkg/logger"
)

const userBatchSize = 100

// UserIterator is satisfied by the auth UserRepository.
type UserIterator interface {
	ForEach(ctx context.Context, batchSize int, fn func(*authdomain.User) error) error
}

// BudgetReporter is satisfied by the expense usecase.
type BudgetReporter interface {
	BudgetReport(ctx context.Context, userID string, settings authdomain.Settings) (*domain.BudgetReport, error)
}

// BudgetAlertScheduler periodically checks every user who opted into budget
// alerts and logs a warning for each category over its monthly budget.
type BudgetAlertScheduler struct {
	users    UserIterator
	reports  BudgetReporter
	log      *logger.Logger
	interval time.Duration

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewBudgetAlertScheduler creates a new scheduler. An interval of zero or
// less disables it.
func NewBudgetAlertScheduler(users UserIterator, reports BudgetReporter, interval time.Duration, log *logger.Logger) *BudgetAlertScheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &BudgetAlertScheduler{
		users:    users,
		reports:  reports,
		log:      log.WithComponent("budget-alerts"),
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *BudgetAlertScheduler) Start() {
	if s.interval <= 0 {
		s.log.Info("budget alert scheduler disabled")
		close(s.done)
		return
	}

	s.log.Info("starting budget alert scheduler", logger.Fields("interval", s.interval.String()))

	go func() {
		defer close(s.done)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-s.stopChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		s.CheckBudgets(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.CheckBudgets(ctx)
			case <-s.stopChan:
				s.log.Info("budget alert scheduler stopped")
				return
			}
		}
	}()
}

// Stop stops the loop and waits for an in-flight check to finish. It must
// follow Start and may be called more than once.
func (s *BudgetAlertScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}

// CheckBudgets runs one pass over all users and returns the number of
// over-budget alerts raised.
func (s *BudgetAlertScheduler) CheckBudgets(ctx context.Context) int {
	alerts := 0
	err := s.users.ForEach(ctx, userBatchSize, func(u *authdomain.User) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !u.Settings.Notifications.BudgetAlerts || len(u.Settings.Budgets) == 0 {
			return nil
		}

		report, err := s.reports.BudgetReport(ctx, u.ID, u.Settings)
		if err != nil {
			s.log.Error("budget report failed", logger.Fields(logger.FieldUserID, u.ID, logger.FieldError, err))
			return nil
		}

		for _, c := range report.Exceeded() {
			alerts++
			s.log.Warn("budget exceeded", logger.Fields(
				logger.FieldUserID, u.ID,
				"category", c.Category,
				"budget", c.Budget,
				"spent", c.Spent,
				"currency", report.Currency,
			))
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		s.log.Error("budget alert pass failed", logger.Fields(logger.FieldError, err))
	}
	return alerts
}
