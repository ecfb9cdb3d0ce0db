// Package tasks runs fire-and-forget background jobs: PDF generation,
// storage cleanup, outbound mail. Results are never surfaced to the
// request that submitted the job, failures show up in the logs only.
package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"facture/lib/sl"
)

const defaultJobTimeout = 2 * time.Minute

type job struct {
	name string
	fn   func(ctx context.Context) error
}

type Pool struct {
	queue   chan job
	timeout time.Duration
	log     *slog.Logger
	wg      sync.WaitGroup
}

// New starts a pool of workers draining a bounded queue. Submitting to
// a full queue drops the job with a logged warning instead of blocking
// the request handler.
func New(workers, queueSize int, log *slog.Logger) *Pool {
	p := &Pool{
		queue:   make(chan job, queueSize),
		timeout: defaultJobTimeout,
		log:     log.With(sl.Module("tasks")),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues a named job. It never blocks and never reports back.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) {
	select {
	case p.queue <- job{name: name, fn: fn}:
	default:
		p.log.Warn("task queue full, job dropped", slog.String("job", name))
	}
}

// Stop closes the queue and waits for running jobs to finish.
func (p *Pool) Stop() {
	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.queue {
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panic", slog.String("job", j.name), slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	if err := j.fn(ctx); err != nil {
		p.log.Error("task failed", slog.String("job", j.name), sl.Err(err))
		return
	}
	p.log.Debug("task done",
		slog.String("job", j.name),
		slog.Float64("duration", time.Since(start).Seconds()),
	)
}
