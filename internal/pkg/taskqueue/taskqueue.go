package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisc "github.com/edufund/core/internal/pkg/redis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Status is the lifecycle state of a queued task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is a unit of background work (receipt emails, moderation
// notifications) stored in Redis.
type Task struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    Status          `json:"status"`
	Error     string          `json:"error,omitempty"`
	DedupKey  string          `json:"dedupKey,omitempty"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

const (
	keyTask    = "edufund:task:"
	keyPending = "edufund:tasks:pending" // list of task IDs awaiting a worker
	keyIndex   = "edufund:tasks:index"   // zset: score=created_at ms, member=id
	keyDedup   = "edufund:tasks:dedup:"  // hash per type: dedup_key -> task_id
	taskTTL    = 7 * 24 * time.Hour
)

// Queue is a Redis-backed work queue with per-type deduplication.
type Queue struct {
	rc *redisc.Client
}

func New(rc *redisc.Client) *Queue {
	return &Queue{rc: rc}
}

func taskKey(id string) string { return keyTask + id }

// Enqueue stores a new pending task. When dedupKey is set and an equivalent
// task is already in flight, the existing task is returned instead.
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload interface{}, dedupKey string) (*Task, error) {
	if dedupKey != "" {
		existing, err := q.rc.Raw().HGet(ctx, keyDedup+taskType, dedupKey).Result()
		if err == nil && existing != "" {
			if t, err := q.Get(ctx, existing); err == nil && t != nil {
				return t, nil
			}
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Payload:   body,
		Status:    StatusPending,
		DedupKey:  dedupKey,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}

	pipe := q.rc.Raw().TxPipeline()
	pipe.Set(ctx, taskKey(task.ID), data, taskTTL)
	pipe.RPush(ctx, keyPending, task.ID)
	pipe.ZAdd(ctx, keyIndex, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: task.ID,
	})
	if dedupKey != "" {
		pipe.HSet(ctx, keyDedup+taskType, dedupKey, task.ID)
		pipe.Expire(ctx, keyDedup+taskType, taskTTL)
	}
	_, err = pipe.Exec(ctx)
	return task, err
}

// Get retrieves a task by ID. Returns (nil, nil) when unknown or expired.
func (q *Queue) Get(ctx context.Context, id string) (*Task, error) {
	data, err := q.rc.Raw().Get(ctx, taskKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var task Task
	return &task, json.Unmarshal(data, &task)
}

// Claim pops the oldest pending task and marks it running. Blocks up to
// timeout; returns (nil, nil) when nothing arrived.
func (q *Queue) Claim(ctx context.Context, timeout time.Duration) (*Task, error) {
	res, err := q.rc.Raw().BLPop(ctx, timeout, keyPending).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	task, err := q.Get(ctx, res[1])
	if err != nil || task == nil {
		return nil, err
	}
	task.Status = StatusRunning
	task.Attempts++
	task.UpdatedAt = time.Now()
	return task, q.save(ctx, task)
}

// Finish records the outcome of a claimed task. Failed tasks that have not
// exhausted their attempts are requeued.
func (q *Queue) Finish(ctx context.Context, task *Task, runErr error, maxAttempts int) error {
	task.UpdatedAt = time.Now()
	if runErr == nil {
		task.Status = StatusCompleted
		task.Error = ""
	} else if task.Attempts < maxAttempts {
		task.Status = StatusPending
		task.Error = runErr.Error()
		if err := q.rc.Raw().RPush(ctx, keyPending, task.ID).Err(); err != nil {
			return err
		}
	} else {
		task.Status = StatusFailed
		task.Error = runErr.Error()
	}

	if (task.Status == StatusCompleted || task.Status == StatusFailed) && task.DedupKey != "" {
		q.rc.Raw().HDel(ctx, keyDedup+task.Type, task.DedupKey)
	}
	return q.save(ctx, task)
}

func (q *Queue) save(ctx context.Context, task *Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.rc.Raw().Set(ctx, taskKey(task.ID), data, taskTTL).Err()
}

// List returns tasks newest first, optionally filtered by type and status.
func (q *Queue) List(ctx context.Context, page, size int, taskType string, status Status) ([]*Task, int64, error) {
	ids, err := q.rc.Raw().ZRevRange(ctx, keyIndex, 0, -1).Result()
	if err != nil {
		return nil, 0, err
	}

	var tasks []*Task
	for _, id := range ids {
		task, err := q.Get(ctx, id)
		if err != nil || task == nil {
			continue
		}
		if taskType != "" && task.Type != taskType {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		tasks = append(tasks, task)
	}

	total := int64(len(tasks))
	start := (page - 1) * size
	if start >= len(tasks) {
		return []*Task{}, total, nil
	}
	end := start + size
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[start:end], total, nil
}

// Sweep removes terminal tasks created before the cutoff and prunes index
// entries whose task record already expired.
func (q *Queue) Sweep(ctx context.Context, before time.Time) (int, error) {
	ids, err := q.rc.Raw().ZRange(ctx, keyIndex, 0, -1).Result()
	if err != nil {
		return 0, err
	}

	removed := 0
	pipe := q.rc.Raw().TxPipeline()
	for _, id := range ids {
		task, err := q.Get(ctx, id)
		if err != nil {
			continue
		}
		if task == nil {
			pipe.ZRem(ctx, keyIndex, id)
			removed++
			continue
		}
		if task.Status != StatusCompleted && task.Status != StatusFailed {
			continue
		}
		if task.CreatedAt.After(before) {
			continue
		}
		pipe.Del(ctx, taskKey(id))
		pipe.ZRem(ctx, keyIndex, id)
		if task.DedupKey != "" {
			pipe.HDel(ctx, keyDedup+task.Type, task.DedupKey)
		}
		removed++
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return removed, nil
}

// Delete removes one task regardless of state.
func (q *Queue) Delete(ctx context.Context, id string) error {
	task, err := q.Get(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("taskqueue: task %q not found", id)
	}
	pipe := q.rc.Raw().TxPipeline()
	pipe.Del(ctx, taskKey(id))
	pipe.ZRem(ctx, keyIndex, id)
	if task.DedupKey != "" {
		pipe.HDel(ctx, keyDedup+task.Type, task.DedupKey)
	}
	_, err = pipe.Exec(ctx)
	return err
}
