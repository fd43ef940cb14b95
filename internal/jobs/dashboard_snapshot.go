package jobs

import (
	"context"
	"fmt"
	"time"

	"codeeditor/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule refreshes the snapshot every 15 minutes.
const DefaultSchedule = "*/15 * * * *"

// ActiveWindow is how recent a login has to be for a user to count as active.
const ActiveWindow = 30 * 24 * time.Hour

type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}

type DocumentCounter interface {
	Count(ctx context.Context) (int64, error)
}

type SnapshotSaver interface {
	SaveAdminSnapshot(ctx context.Context, d *models.AdminDashboard) error
}

// DashboardSnapshotJob recomputes the admin dashboard on a cron schedule.
type DashboardSnapshotJob struct {
	users       UserCounter
	questions   DocumentCounter
	submissions DocumentCounter
	store       SnapshotSaver
	schedule    string
	timeout     time.Duration
	now         func() time.Time
	cron        *cron.Cron
	logger      *zap.Logger
}

func NewDashboardSnapshotJob(users UserCounter, questions, submissions DocumentCounter, store SnapshotSaver, schedule string, logger *zap.Logger) *DashboardSnapshotJob {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardSnapshotJob{
		users:       users,
		questions:   questions,
		submissions: submissions,
		store:       store,
		schedule:    schedule,
		timeout:     30 * time.Second,
		now:         func() time.Time { return time.Now().UTC() },
		cron:        cron.New(),
		logger:      logger,
	}
}

// Start schedules the job. It does not run it immediately; call RunOnce for that.
func (j *DashboardSnapshotJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("dashboard snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dashboard snapshot %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("dashboard snapshot job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running snapshot to finish.
func (j *DashboardSnapshotJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
	j.logger.Info("dashboard snapshot job stopped")
}

func (j *DashboardSnapshotJob) RunOnce(ctx context.Context) (*models.AdminDashboard, error) {
	now := j.now()

	totalUsers, err := j.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	activeUsers, err := j.users.CountActiveSince(ctx, now.Add(-ActiveWindow))
	if err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	totalQuestions, err := j.questions.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	totalSubmissions, err := j.submissions.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	snapshot := &models.AdminDashboard{
		TotalUsers:       totalUsers,
		ActiveUsers:      activeUsers,
		TotalQuestions:   totalQuestions,
		TotalSubmissions: totalSubmissions,
		UpdatedAt:        now,
	}
	if err := j.store.SaveAdminSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	j.logger.Info("dashboard snapshot refreshed",
		zap.Int64("users", totalUsers),
		zap.Int64("active_users", activeUsers),
		zap.Int64("questions", totalQuestions),
		zap.Int64("submissions", totalSubmissions))
	return snapshot, nil
}
