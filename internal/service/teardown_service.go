package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/session"
	"github.com/zenops/zen-ops-console/pkg/jobs"
)

// JobLogout is the job kind that releases a logged-out session.
const JobLogout = "session.logout"

// TeardownService releases per-session state in the background: list modules
// on idle or logout, and the stored session namespace on logout.
type TeardownService struct {
	registry *ListRegistry
	spaces   session.Namespaces
	queue    *jobs.Queue
	logger   *zap.Logger
}

// NewTeardownService builds the service and its worker queue.
func NewTeardownService(registry *ListRegistry, spaces session.Namespaces, cfg jobs.QueueConfig, logger *zap.Logger) *TeardownService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Logger = logger
	s := &TeardownService{registry: registry, spaces: spaces, logger: logger}
	s.queue = jobs.NewQueue("session-teardown", s.handle, cfg)
	return s
}

// Start launches the workers.
func (s *TeardownService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for in-flight jobs up to ctx, then stops the workers.
func (s *TeardownService) Stop(ctx context.Context) {
	if err := s.queue.Drain(ctx); err != nil {
		s.logger.Warn("teardown queue not drained", zap.Error(err))
	}
	s.queue.Stop()
}

// Drain blocks until every scheduled job has finished or ctx ends.
func (s *TeardownService) Drain(ctx context.Context) error {
	return s.queue.Drain(ctx)
}

// Logout schedules the release of everything held for sid.
func (s *TeardownService) Logout(sid string) error {
	return s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Kind: JobLogout, Key: sid})
}

// ResetLists closes the list views held for sid right away and keeps its
// namespace. Used when a new login takes over the browser session.
func (s *TeardownService) ResetLists(sid string) int {
	dropped := s.registry.Drop(sid)
	if dropped > 0 {
		s.logger.Debug("list views reset", zap.String("sid", sid), zap.Int("lists", dropped))
	}
	return dropped
}

// SweepIdle closes idle list modules and returns how many sessions lost all of theirs.
func (s *TeardownService) SweepIdle() int {
	idle := s.registry.Sweep()
	for _, sid := range idle {
		s.logger.Debug("idle lists released", zap.String("sid", sid))
	}
	return len(idle)
}

// RunSweeper calls SweepIdle every interval until ctx ends.
func (s *TeardownService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.SweepIdle(); n > 0 {
				s.logger.Info("swept idle list sessions", zap.Int("sessions", n))
			}
		}
	}
}

func (s *TeardownService) handle(ctx context.Context, job jobs.Job) error {
	switch job.Kind {
	case JobLogout:
		dropped := s.registry.Drop(job.Key)
		if err := s.spaces.Purge(ctx, job.Key); err != nil {
			return err
		}
		s.logger.Debug("session torn down", zap.String("sid", job.Key), zap.Int("lists", dropped))
	default:
		s.logger.Warn("unknown teardown job", zap.String("kind", job.Kind))
	}
	return nil
}
