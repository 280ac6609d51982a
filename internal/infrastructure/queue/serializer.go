package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/techzone/storefront-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned when a job is submitted after the workers exited.
var ErrStopped = errors.New("serializer stopped")

// Job states. A queued job is claimed exactly once, either by the worker
// that runs it or by the caller that abandons it.
const (
	jobQueued int32 = iota
	jobRunning
	jobAbandoned
)

type job struct {
	ctx   context.Context
	fn    func(ctx context.Context) error
	done  chan error
	state atomic.Int32
}

func (j *job) claim(to int32) bool {
	return j.state.CompareAndSwap(jobQueued, to)
}

// Serializer runs jobs on a fixed set of workers using consistent hashing on
// a key, so every job for the same key executes one at a time and in
// submission order. Jobs for different keys may run in parallel.
type Serializer struct {
	workers []chan *job
	labels  []string
	stopped chan struct{}
	log     zerolog.Logger
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan *job, numWorkers),
		labels:  make([]string, numWorkers),
		stopped: make(chan struct{}),
		log:     log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan *job, channelBuffer)
		s.labels[i] = strconv.Itoa(i)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(s.stopped)
	}()
}

// Do runs fn on the worker owning key and waits for its result. A caller
// that gives up while the job is still queued gets ctx.Err() and the job is
// skipped. Once a worker has started the job, Do waits for it to finish and
// returns its result, and fn runs with a context that is not cancelled
// with the caller's.
func (s *Serializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	idx := s.shardIndex(key)
	depth := metrics.CartQueueDepth.WithLabelValues(s.labels[idx])
	j := &job{ctx: context.WithoutCancel(ctx), fn: fn, done: make(chan error, 1)}

	depth.Inc()
	select {
	case s.workers[idx] <- j:
	case <-ctx.Done():
		depth.Dec()
		return ctx.Err()
	case <-s.stopped:
		depth.Dec()
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		if j.claim(jobAbandoned) {
			return ctx.Err()
		}
	case <-s.stopped:
		if j.claim(jobAbandoned) {
			return ErrStopped
		}
	}
	return <-j.done
}

// shardIndex maps a key deterministically to a worker index.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan *job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			metrics.CartQueueDepth.WithLabelValues(s.labels[id]).Dec()
			if !j.claim(jobRunning) {
				continue
			}
			j.done <- s.run(j)
		}
	}
}

// run executes a job, turning a panic into an error so one bad job cannot
// take the worker (and every key hashed to it) down.
func (s *Serializer) run(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("cart job panicked")
			err = errors.New("cart job panicked")
		}
	}()
	return j.fn(j.ctx)
}
