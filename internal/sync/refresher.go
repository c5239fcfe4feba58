package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/b-editor/docsite/internal/logfields"
	"github.com/b-editor/docsite/internal/store"
)

// Refresher periodically pulls the git content store and publishes an update
// event when new commits arrive.
type Refresher struct {
	store     *store.GitStore
	publisher *Publisher
	interval  time.Duration
	scheduler gocron.Scheduler
}

// NewRefresher creates a refresher. publisher may be nil when eventing is not
// configured.
func NewRefresher(gitStore *store.GitStore, publisher *Publisher, interval time.Duration) (*Refresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Refresher{
		store:     gitStore,
		publisher: publisher,
		interval:  interval,
		scheduler: scheduler,
	}, nil
}

// Start schedules the refresh job and starts the scheduler.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.refresh, ctx),
		gocron.WithName("content-refresh"),
	)
	if err != nil {
		return fmt.Errorf("schedule content refresh: %w", err)
	}

	r.scheduler.Start()
	slog.Info("Content refresh scheduled", slog.Duration("interval", r.interval))
	return nil
}

// Stop shuts the scheduler down, waiting for a running refresh to finish.
func (r *Refresher) Stop() error {
	return r.scheduler.Shutdown()
}

func (r *Refresher) refresh(ctx context.Context) {
	changed, err := r.store.Refresh(ctx)
	if err != nil {
		slog.Error("Content refresh failed", logfields.Error(err))
		return
	}
	if !changed {
		return
	}

	head, err := r.store.Head()
	if err != nil {
		slog.Warn("Could not read head after refresh", logfields.Error(err))
	}
	if err := r.publisher.PublishUpdate(UpdateEvent{Store: "git", Head: head}); err != nil {
		slog.Warn("Update event not published", logfields.Error(err))
	}
}
