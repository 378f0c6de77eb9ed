package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces one dead letter list per source queue: dlq:jobs:email.
const DLQPrefix = "dlq:"

// DLQEntry is a job that exhausted its attempts, kept for manual inspection.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      time.Time       `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

// SendToDLQ records a failed job. Failures here are only logged: the job is
// already lost to the live queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
		Attempts:      attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal entry")
		return
	}

	key := DLQPrefix + queue
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job dead-lettered")
}

// DLQLengths reports the dead letter backlog of every job queue, for /health.
func DLQLengths(ctx context.Context, rdb *redis.Client) (map[string]int64, error) {
	out := make(map[string]int64, 2)
	for _, q := range []string{QueueEmail, QueueRespaldo} {
		n, err := rdb.LLen(ctx, DLQPrefix+q).Result()
		if err != nil {
			return nil, err
		}
		out[q] = n
	}
	return out, nil
}
