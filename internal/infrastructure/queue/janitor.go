package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alayatales/temple-api/internal/api/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

// Remover deletes one stored image by its public path.
type Remover interface {
	Remove(ctx context.Context, publicPath string) error
}

// Janitor removes images that no temple references any more. Paths are routed
// to a fixed set of workers by FNV hash, so removals of the same path never
// run concurrently.
type Janitor struct {
	workers []chan string
	store   Remover
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewJanitor creates a Janitor with numWorkers sharded workers, each with a
// buffer of bufferSize paths. Non-positive values fall back to defaults.
func NewJanitor(numWorkers, bufferSize int, store Remover, log zerolog.Logger) *Janitor {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = channelBuffer
	}
	j := &Janitor{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range j.workers {
		j.workers[i] = make(chan string, bufferSize)
	}
	return j
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	for i, ch := range j.workers {
		j.wg.Add(1)
		go j.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (j *Janitor) Wait() {
	j.wg.Wait()
}

// Enqueue hands paths to their workers without blocking. A path whose worker
// queue is full is dropped and logged.
func (j *Janitor) Enqueue(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		idx := j.shardIndex(p)
		select {
		case j.workers[idx] <- p:
			metrics.JanitorQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(j.workers[idx])))
		default:
			metrics.ImageRemovalsTotal.WithLabelValues("dropped").Inc()
			j.log.Warn().Str("path", p).Int("worker_id", idx).Msg("janitor queue full, image left on storage")
		}
	}
}

// shardIndex maps a path deterministically to a worker index.
func (j *Janitor) shardIndex(path string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return int(h.Sum32() % uint32(len(j.workers)))
}

func (j *Janitor) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer j.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-ch:
			metrics.JanitorQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := j.store.Remove(ctx, path); err != nil {
				metrics.ImageRemovalsTotal.WithLabelValues("failed").Inc()
				j.log.Error().Err(err).
					Str("path", path).
					Int("worker_id", id).
					Msg("image removal failed")
				continue
			}
			metrics.ImageRemovalsTotal.WithLabelValues("removed").Inc()
			j.log.Debug().Str("path", path).Int("worker_id", id).Msg("image removed")
		}
	}
}
