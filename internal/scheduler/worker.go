package scheduler

import (
	"context"
	"fmt"

	"deal_finder_backend/internal/matching"
	"deal_finder_backend/platform/config"
	"deal_finder_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	matcher *matching.Matcher
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, matcher *matching.Matcher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		matcher: matcher,
		log:     log,
	}

	mux.HandleFunc(TaskCrossReference, w.handleCrossReference)
	mux.HandleFunc(TaskSourceRefresh, w.handleSourceRefresh)

	return w, nil
}

func (w *Worker) handleCrossReference(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCrossReferencePayload(task)
	if err != nil {
		return err
	}

	w.log.Info("cross-reference task received", "requested_by", payload.RequestedBy)
	return w.matcher.Run(ctx)
}

// handleSourceRefresh re-scores recent deals so listings the provider updated
// since the last pass are picked up for the given source.
func (w *Worker) handleSourceRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSourceRefreshPayload(task)
	if err != nil {
		return err
	}

	w.log.Info("source refresh task received", "source", payload.Source)
	return w.matcher.Run(ctx)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
