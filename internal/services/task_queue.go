package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/codecrew/backend/internal/config"
	"github.com/codecrew/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeNotification = "notification:deliver"
)

// NotificationTask is a queued in-app notification delivery.
type NotificationTask struct {
	UserID   uint   `json:"user_id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	BeaconID *uint  `json:"beacon_id,omitempty"`
}

// TaskQueue defines the interface for notification delivery.
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *NotificationTask) error
	// IsAsync returns true if queue processes tasks asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

// Global task queue instance
var (
	globalTaskQueue TaskQueue
	taskQueueOnce   sync.Once
)

// InitTaskQueue initializes the global task queue based on config
func InitTaskQueue(cfg *config.Config) TaskQueue {
	taskQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err != nil {
				logger.Infof("[TaskQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalTaskQueue = NewSyncQueue()
			} else {
				logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalTaskQueue = queue
			}
		} else {
			logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
			globalTaskQueue = NewSyncQueue()
		}
	})
	return globalTaskQueue
}

// GetTaskQueue returns the global task queue instance
func GetTaskQueue() TaskQueue {
	return globalTaskQueue
}

// EnqueueNotification routes a notification through the global queue.
// Failures are logged to the diagnostic channel, never propagated: the
// triggering operation has already committed.
func EnqueueNotification(task *NotificationTask) {
	queue := GetTaskQueue()
	if queue == nil {
		return
	}
	if err := queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Uint("user_id", task.UserID).Msg("Failed to enqueue notification")
		LogError("Notifications", "Enqueue", err.Error(), &task.UserID, "", "", task)
	}
}

// AsyncQueue implements TaskQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue creates a new Redis-based async queue
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Test connection by pinging Redis
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	_, err := inspector.Queues()
	if err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

// Enqueue adds a notification task to the async queue
func (q *AsyncQueue) Enqueue(task *NotificationTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeNotification, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Debug().Str("task_id", info.ID).Uint("user_id", task.UserID).Msg("Notification enqueued")
	return nil
}

func (q *AsyncQueue) IsAsync() bool { return true }

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements TaskQueue by processing tasks inline, used when
// Redis is disabled.
type SyncQueue struct {
	mu        sync.Mutex
	processor func(context.Context, *NotificationTask) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function invoked for each task.
func (q *SyncQueue) SetProcessor(processor func(context.Context, *NotificationTask) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.processor = processor
}

// Enqueue processes the task immediately in the calling goroutine.
func (q *SyncQueue) Enqueue(task *NotificationTask) error {
	q.mu.Lock()
	processor := q.processor
	q.mu.Unlock()

	if processor == nil {
		logger.Warn().Msg("[TaskQueue] No processor configured, dropping task")
		return nil
	}
	return processor(context.Background(), task)
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }
