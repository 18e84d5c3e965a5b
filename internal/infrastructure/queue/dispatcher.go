package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
	"github.com/userhub/user-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// AuditDispatcher routes audit events to a fixed set of workers using
// consistent hashing on the actor, keeping each actor's events in order.
// It implements ports.AuditSink.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled; Wait blocks until they have.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues event without blocking. Events are dropped when the
// worker queue is full.
func (d *AuditDispatcher) Record(event domain.AuditEvent) {
	idx := d.shardIndex(event.Actor)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "dropped").Inc()
		d.log.Warn().
			Str("event_id", event.ID).
			Str("action", string(event.Action)).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an actor deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(actor string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actor))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(id, label, ch)
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.persist(context.WithoutCancel(ctx), id, event)
		}
	}
}

// drain persists whatever is still queued at shutdown.
func (d *AuditDispatcher) drain(id int, label string, ch <-chan domain.AuditEvent) {
	for {
		select {
		case event := <-ch:
			d.persist(context.Background(), id, event)
		default:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(0)
			return
		}
	}
}

func (d *AuditDispatcher) persist(ctx context.Context, id int, event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "failed").Inc()
		d.log.Error().Err(err).
			Str("event_id", event.ID).
			Str("action", string(event.Action)).
			Int("worker_id", id).
			Msg("audit event persistence failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "stored").Inc()
}
