// Package worker drains the search-record queue into the history store.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/solen/qflick/internal/adapters/mq/queue"
	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/pkg/logger"
	"github.com/solen/qflick/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// Recorder persists one completed search.
type Recorder interface {
	Record(ctx context.Context, rec model.SearchRecord) error
}

// Queue defines how workers receive records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Record
}

// Pool runs a fixed number of workers draining the queue.
type Pool struct {
	queue    Queue
	recorder Recorder
	count    int
	log      logger.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPool creates a worker pool with count workers.
func NewPool(count int, q Queue, rec Recorder, opts ...Option) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{
		queue:    q,
		recorder: rec,
		count:    count,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get().Named("worker")
	}
	return p
}

// Start launches the workers. They stop when ctx is canceled, Stop is
// called, or the queue closes.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	metrics.UpdateWorkerCount(p.count)

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go func(name string) {
			defer p.wg.Done()
			p.run(ctx, name)
		}(fmt.Sprintf("worker-%d", i))
	}
}

func (p *Pool) run(ctx context.Context, name string) {
	records := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			if err := p.recorder.Record(ctx, rec); err != nil {
				metrics.RecordWorkerError()
				p.log.Error(ctx, "recording search failed",
					logger.String("worker", name),
					logger.String("requestID", rec.RequestID),
					logger.Error(err),
				)
			}
		}
	}
}

// Stop cancels the workers and waits for them to drain, bounded by a
// shutdown timeout.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		p.log.Warn(context.Background(), "worker shutdown timed out")
	}
	metrics.UpdateWorkerCount(0)
}
