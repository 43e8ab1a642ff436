package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

const (
	taskStream   = "edutech:tasks"
	taskGroup    = "edutech:workers"
	delayedTasks = "edutech:tasks:delayed"

	taskKeyPrefix  = "edutech:task:"
	userTaskPrefix = "edutech:tasks:user:"
	msgSuffix      = ":msg"

	consumerPrefix = "worker-"

	// taskTTL bounds how long finished task records stay visible
	taskTTL = 7 * 24 * time.Hour

	// claimTimeout is how long a delivered task may sit unacked before
	// another worker takes it over
	claimTimeout = 5 * time.Minute
)

// Verify interface compliance
var _ driven.TaskQueue = (*Queue)(nil)

// Queue implements TaskQueue using Redis Streams with a consumer group.
// Task records live in plain keys, delayed retries in a sorted set, and a
// per-user set indexes task IDs for listing.
type Queue struct {
	client       *redis.Client
	consumerName string
}

// NewQueue creates a new Redis-backed task queue.
// The consumerName should be unique per worker instance (e.g. hostname + PID).
func NewQueue(ctx context.Context, client *redis.Client, consumerName string) (*Queue, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if consumerName == "" {
		consumerName = consumerPrefix + strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	err := client.XGroupCreateMkStream(ctx, taskStream, taskGroup, "0").Err()
	if err != nil && !isGroupExistsError(err) {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &Queue{client: client, consumerName: consumerName}, nil
}

func taskKey(id string) string { return taskKeyPrefix + id }

func userTasksKey(userID int64) string {
	return userTaskPrefix + strconv.FormatInt(userID, 10)
}

func streamValues(task *domain.Task) map[string]any {
	return map[string]any{
		"task_id": task.ID,
		"type":    string(task.Type),
		"user_id": task.UserID,
	}
}

// queueTask records the task and either streams it or parks it until due.
func queueTask(ctx context.Context, pipe redis.Pipeliner, task *domain.Task, now time.Time) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.ID, err)
	}

	pipe.Set(ctx, taskKey(task.ID), data, taskTTL)
	pipe.SAdd(ctx, userTasksKey(task.UserID), task.ID)
	pipe.Expire(ctx, userTasksKey(task.UserID), taskTTL)

	if task.ScheduledFor.After(now) {
		pipe.ZAdd(ctx, delayedTasks, redis.Z{
			Score:  float64(task.ScheduledFor.Unix()),
			Member: task.ID,
		})
	} else {
		pipe.XAdd(ctx, &redis.XAddArgs{Stream: taskStream, Values: streamValues(task)})
	}
	return nil
}

// Enqueue adds a task to the queue for processing.
func (q *Queue) Enqueue(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return errors.New("task is required")
	}
	return q.EnqueueBatch(ctx, []*domain.Task{task})
}

// EnqueueBatch adds multiple tasks in one MULTI/EXEC.
func (q *Queue) EnqueueBatch(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	now := time.Now()
	pipe := q.client.TxPipeline()
	for _, task := range tasks {
		if task == nil {
			continue
		}
		if err := queueTask(ctx, pipe, task, now); err != nil {
			return err
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("enqueue tasks: %w", err)
	}
	return nil
}

// Dequeue returns the next ready task without blocking.
func (q *Queue) Dequeue(ctx context.Context) (*domain.Task, error) {
	return q.dequeue(ctx, -1)
}

// DequeueWithTimeout blocks up to timeout seconds for the next task.
func (q *Queue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	return q.dequeue(ctx, time.Duration(timeout)*time.Second)
}

func (q *Queue) dequeue(ctx context.Context, block time.Duration) (*domain.Task, error) {
	// Best effort: a failure here only delays retries until the next poll
	_ = q.promoteDelayed(ctx)

	if task, err := q.claimAbandoned(ctx); err == nil && task != nil {
		return task, nil
	}

	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    taskGroup,
		Consumer: q.consumerName,
		Streams:  []string{taskStream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("read from stream: %w", err)
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}

	return q.startMessage(ctx, streams[0].Messages[0])
}

// startMessage loads the task behind a stream message and marks it processing.
// Messages without a loadable task are dropped.
func (q *Queue) startMessage(ctx context.Context, msg redis.XMessage) (*domain.Task, error) {
	taskID, ok := msg.Values["task_id"].(string)
	if !ok {
		q.dropMessage(ctx, msg.ID)
		return nil, nil
	}

	task, err := q.GetTask(ctx, taskID)
	if errors.Is(err, domain.ErrNotFound) {
		q.dropMessage(ctx, msg.ID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	task.MarkProcessing()
	data, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("marshal task %s: %w", task.ID, err)
	}

	pipe := q.client.TxPipeline()
	pipe.Set(ctx, taskKey(task.ID), data, taskTTL)
	pipe.Set(ctx, taskKey(task.ID)+msgSuffix, msg.ID, taskTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("mark task %s processing: %w", task.ID, err)
	}
	return task, nil
}

func (q *Queue) dropMessage(ctx context.Context, msgID string) {
	q.client.XAck(ctx, taskStream, taskGroup, msgID)
	q.client.XDel(ctx, taskStream, msgID)
}

// finish acknowledges the stream message of a task and stores its new state.
func (q *Queue) finish(ctx context.Context, task *domain.Task, requeue bool) error {
	msgID, err := q.client.Get(ctx, taskKey(task.ID)+msgSuffix).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("get message id: %w", err)
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.ID, err)
	}

	pipe := q.client.TxPipeline()
	if msgID != "" {
		pipe.XAck(ctx, taskStream, taskGroup, msgID)
		pipe.XDel(ctx, taskStream, msgID)
	}
	pipe.Set(ctx, taskKey(task.ID), data, taskTTL)
	pipe.Del(ctx, taskKey(task.ID)+msgSuffix)
	if requeue {
		pipe.ZAdd(ctx, delayedTasks, redis.Z{
			Score:  float64(task.ScheduledFor.Unix()),
			Member: task.ID,
		})
	}

	_, err = pipe.Exec(ctx)
	return err
}

// Ack acknowledges successful completion of a task.
func (q *Queue) Ack(ctx context.Context, taskID string) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	task.MarkCompleted()
	if err := q.finish(ctx, task, false); err != nil {
		return fmt.Errorf("ack task %s: %w", taskID, err)
	}
	return nil
}

// Nack records a failed attempt. The task is retried with backoff while
// attempts remain and is marked failed afterwards.
func (q *Queue) Nack(ctx context.Context, taskID string, reason string) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	retry := task.CanRetry()
	if retry {
		task.Retry(reason)
	} else {
		task.MarkFailed(reason)
	}

	if err := q.finish(ctx, task, retry); err != nil {
		return fmt.Errorf("nack task %s: %w", taskID, err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (q *Queue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	data, err := q.client.Get(ctx, taskKey(taskID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("unmarshal task %s: %w", taskID, err)
	}
	return &task, nil
}

// ListTasks returns one user's tasks, newest first.
// IDs whose records have expired are pruned from the user index.
func (q *Queue) ListTasks(ctx context.Context, filter driven.TaskFilter) ([]*domain.Task, error) {
	ids, err := q.client.SMembers(ctx, userTasksKey(filter.UserID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list task ids: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(ids))
	var expired []any
	for _, id := range ids {
		task, err := q.GetTask(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			expired = append(expired, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Type != "" && task.Type != filter.Type {
			continue
		}
		tasks = append(tasks, task)
	}

	if len(expired) > 0 {
		q.client.SRem(ctx, userTasksKey(filter.UserID), expired...)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(tasks) {
			return []*domain.Task{}, nil
		}
		tasks = tasks[filter.Offset:]
	}
	if filter.Limit > 0 && len(tasks) > filter.Limit {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

// CancelTask marks a pending task as failed with reason "cancelled".
func (q *Queue) CancelTask(ctx context.Context, taskID string) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Status != domain.TaskStatusPending {
		return fmt.Errorf("%w: cannot cancel %s task %s", domain.ErrTaskNotPending, task.Status, taskID)
	}

	task.MarkFailed("cancelled")
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", taskID, err)
	}

	pipe := q.client.TxPipeline()
	pipe.ZRem(ctx, delayedTasks, taskID)
	pipe.Set(ctx, taskKey(taskID), data, taskTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// PurgeTasks removes completed/failed tasks older than the given age.
func (q *Queue) PurgeTasks(ctx context.Context, olderThanSeconds int) (int, error) {
	cutoff := time.Now().Add(-time.Duration(olderThanSeconds) * time.Second)
	purged := 0

	err := q.scanTasks(ctx, func(task *domain.Task) error {
		if isFinished(task) && task.UpdatedAt.Before(cutoff) {
			pipe := q.client.TxPipeline()
			pipe.Del(ctx, taskKey(task.ID))
			pipe.SRem(ctx, userTasksKey(task.UserID), task.ID)
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
			purged++
		}
		return nil
	})
	return purged, err
}

// Stats returns queue statistics.
func (q *Queue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	stats := &driven.QueueStats{}

	streamLen, err := q.client.XLen(ctx, taskStream).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("stream length: %w", err)
	}

	pending, err := q.client.XPending(ctx, taskStream, taskGroup).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pending summary: %w", err)
	}
	if pending != nil {
		stats.ProcessingCount = pending.Count
	}

	delayed, err := q.client.ZCard(ctx, delayedTasks).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("delayed count: %w", err)
	}
	stats.PendingCount = streamLen - stats.ProcessingCount + delayed

	err = q.scanTasks(ctx, func(task *domain.Task) error {
		switch task.Status {
		case domain.TaskStatusCompleted:
			stats.CompletedCount++
		case domain.TaskStatusFailed:
			stats.FailedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Ping checks if the queue backend is healthy.
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close is a no-op; the Redis client is shared.
func (q *Queue) Close() error {
	return nil
}

// scanTasks visits every stored task record. O(N); used by maintenance paths only.
func (q *Queue) scanTasks(ctx context.Context, visit func(*domain.Task) error) error {
	var cursor uint64
	for {
		keys, next, err := q.client.Scan(ctx, cursor, taskKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan tasks: %w", err)
		}

		for _, key := range keys {
			if strings.HasSuffix(key, msgSuffix) {
				continue
			}
			task, err := q.GetTask(ctx, strings.TrimPrefix(key, taskKeyPrefix))
			if err != nil {
				continue
			}
			if err := visit(task); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// promoteDelayed moves due tasks from the delayed set onto the stream.
func (q *Queue) promoteDelayed(ctx context.Context) error {
	ids, err := q.client.ZRangeByScore(ctx, delayedTasks, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(time.Now().Unix(), 10),
	}).Result()
	if err != nil || len(ids) == 0 {
		return err
	}

	pipe := q.client.TxPipeline()
	for _, id := range ids {
		pipe.ZRem(ctx, delayedTasks, id)

		task, err := q.GetTask(ctx, id)
		if err != nil || task.Status != domain.TaskStatusPending {
			continue
		}
		pipe.XAdd(ctx, &redis.XAddArgs{Stream: taskStream, Values: streamValues(task)})
	}

	_, err = pipe.Exec(ctx)
	return err
}

// claimAbandoned takes over a message another consumer left unacked too long.
func (q *Queue) claimAbandoned(ctx context.Context) (*domain.Task, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: taskStream,
		Group:  taskGroup,
		Start:  "-",
		End:    "+",
		Count:  10,
		Idle:   claimTimeout,
	}).Result()
	if err != nil {
		return nil, err
	}

	for _, p := range pending {
		claimed, err := q.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   taskStream,
			Group:    taskGroup,
			Consumer: q.consumerName,
			MinIdle:  claimTimeout,
			Messages: []string{p.ID},
		}).Result()
		if err != nil || len(claimed) == 0 {
			continue
		}

		task, err := q.startMessage(ctx, claimed[0])
		if err == nil && task != nil {
			return task, nil
		}
	}
	return nil, nil
}

func isFinished(task *domain.Task) bool {
	return task.Status == domain.TaskStatusCompleted || task.Status == domain.TaskStatusFailed
}

func isGroupExistsError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
