package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail    = "jobs:email"
	QueueRespaldo = "jobs:respaldo"

	JobEmail    = "email"
	JobRespaldo = "respaldo"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes one job payload. A returned error triggers a retry and,
// once attempts are exhausted, the dead letter queue.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) EnqueueRespaldo(ctx context.Context, payload RespaldoJobPayload) error {
	return d.enqueue(ctx, QueueRespaldo, JobRespaldo, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb        *redis.Client
	handlers   map[string]Handler
	backoff    time.Duration
	deadLetter func(ctx context.Context, queue, jobType string, payload json.RawMessage, reason string, attempts int)
	wg         sync.WaitGroup
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	p := &Pool{rdb: rdb, handlers: handlers, backoff: time.Second}
	p.deadLetter = func(ctx context.Context, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
		SendToDLQ(ctx, rdb, queue, jobType, payload, reason, attempts)
	}
	return p
}

// Start launches numWorkers goroutines; each blocks on BRPOP, so idle workers
// cost nothing. They stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	queues := []string{QueueEmail, QueueRespaldo}
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		// waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.process(ctx, result[0], result[1])
	}
}

// process decodes and runs one job, retrying with exponential backoff and
// dead-lettering it when every attempt fails.
func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		p.deadLetter(ctx, queue, "unknown", json.RawMessage(fmt.Sprintf("%q", raw)), "invalid envelope: "+err.Error(), 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		p.deadLetter(ctx, queue, job.Type, job.Payload, "no handler for job type", 0)
		return
	}

	attempts := 0
	err := withRetry(ctx, maxAttempts, p.backoff, func(attempt int) error {
		attempts = attempt + 1
		err := h.Process(ctx, job.Payload)
		if err != nil && !errors.Is(err, ErrPermanent) {
			log.Warn().Err(err).Str("type", job.Type).Int("attempt", attempts).Msg("job attempt failed")
		}
		return err
	})
	if err != nil {
		p.deadLetter(ctx, queue, job.Type, job.Payload, err.Error(), attempts)
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}

// ErrPermanent marks failures that retrying cannot fix (bad payload).
var ErrPermanent = errors.New("permanent job failure")

// withRetry calls fn up to maxAttempts times, waiting base, 2*base, ...
// between attempts. Errors wrapping ErrPermanent stop immediately.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := base * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		lastErr = fn(i)
		if lastErr == nil || errors.Is(lastErr, ErrPermanent) {
			return lastErr
		}
	}
	return lastErr
}
