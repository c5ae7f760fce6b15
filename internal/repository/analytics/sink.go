// Package analytics is the fire-and-forget search event sink. Events go
// through a bounded queue into a worker pool and are written with a short
// timeout; a full queue or a failing store drops the event. Nothing here is
// ever observed by the search path.
package analytics

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
)

const writeTimeout = 2 * time.Second

// counter retention: daily counters kept 90 days.
const counterTTL = 90 * 24 * time.Hour

const defaultQueueSize = 1024

// store is the consumer interface for analytics counters (ISP).
type store interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Event is one completed search.
type Event struct {
	Query        string
	ShopID       string
	ResultsCount int
	Method       string
	LatencyMs    int64
}

// Sink records search events best-effort.
type Sink struct {
	store   store
	pool    *ants.Pool
	queue   chan Event
	done    chan struct{}
	closed  atomic.Bool
	enabled bool
	logger  *zap.Logger
}

// New creates an analytics sink: a queue of queueSize events drained into a
// pool of workers. With enabled=false every call is a no-op.
func New(s store, workers, queueSize int, enabled bool, logger *zap.Logger) (*Sink, error) {
	if !enabled {
		return &Sink{enabled: false, logger: logger}, nil
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create analytics pool: %w", err)
	}

	sink := &Sink{
		store:   s,
		pool:    pool,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
		enabled: true,
		logger:  logger,
	}
	go sink.dispatch()
	return sink, nil
}

// LogSearch enqueues an event. Never blocks the caller: when the queue is
// full the event is dropped.
func (s *Sink) LogSearch(ev Event) {
	if !s.enabled || s.closed.Load() {
		return
	}

	select {
	case s.queue <- ev:
	default:
		s.logger.Debug("Analytics event dropped, queue full",
			zap.String("shop", ev.ShopID))
	}
}

// dispatch drains the queue into the pool. Submit blocks when all workers
// are busy; backpressure lands on the queue, not on callers.
func (s *Sink) dispatch() {
	defer close(s.done)
	for ev := range s.queue {
		err := s.pool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			s.write(ctx, ev)
		})
		if err != nil {
			s.logger.Debug("Analytics event dropped", zap.Error(err))
		}
	}
}

// Close stops accepting events, drains the queue and releases the pool.
func (s *Sink) Close() {
	if !s.enabled || !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.queue)
	<-s.done
	s.pool.Release()
}

func (s *Sink) write(ctx context.Context, ev Event) {
	day := time.Now().UTC().Format("2006-01-02")
	keys := []string{
		fmt.Sprintf("%sanalytics:%s:%s:searches", domain.KeyPrefix, ev.ShopID, day),
		fmt.Sprintf("%sanalytics:%s:%s:method:%s", domain.KeyPrefix, ev.ShopID, day, ev.Method),
	}
	if ev.ResultsCount == 0 {
		keys = append(keys,
			fmt.Sprintf("%sanalytics:%s:%s:zero_results", domain.KeyPrefix, ev.ShopID, day))
	}

	for _, key := range keys {
		if err := s.store.IncrBy(ctx, key, 1); err != nil {
			s.logger.Debug("Analytics write failed", zap.String("key", key), zap.Error(err))
			return
		}
		if err := s.store.Expire(ctx, key, counterTTL, true); err != nil {
			s.logger.Debug("Analytics expire failed", zap.String("key", key), zap.Error(err))
		}
	}
}
