package scheduler

import (
	"context"
	"time"

	"deal_finder_backend/platform/logger"
)

// cross-reference runs have their own schedule row; every other row is a
// per-source refresh keyed by the source name.
const JobCrossReference = "cross_reference"

// Dispatcher polls the schedule store and enqueues tasks for due jobs.
// Claiming advances next_run in the same statement, so a crash between claim
// and enqueue delays one occurrence instead of duplicating it.
type Dispatcher struct {
	store  *ScheduleStore
	client *Client
	log    *logger.Logger
}

func NewDispatcher(store *ScheduleStore, client *Client, log *logger.Logger) *Dispatcher {
	return &Dispatcher{store: store, client: client, log: log}
}

func (d *Dispatcher) Run(ctx context.Context) {
	if d == nil || d.store == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := time.Now()
		due, err := d.store.Due(ctx, now)
		if err != nil {
			d.log.Warn("schedule claim failed", "error", err)
			continue
		}

		for _, js := range due {
			if err := d.dispatch(ctx, js, now); err != nil {
				d.log.Warn("schedule dispatch failed", "job", js.Job, "error", err)
				continue
			}
			d.log.Info("schedule dispatched", "job", js.Job, "next_run", js.NextRun)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, js JobSchedule, runAt time.Time) error {
	if js.Job == JobCrossReference {
		return d.client.EnqueueCrossReference(ctx, CrossReferencePayload{RequestedBy: "schedule"}, runAt)
	}
	return d.client.EnqueueSourceRefresh(ctx, SourceRefreshPayload{Source: js.Job}, runAt)
}
