package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
)

const (
	// TaskCascadeDelete asks the content store to delete everything authored
	// by a user.
	TaskCascadeDelete = "content:cascade_delete"

	// QueueContent is the asynq queue consumed by the content store.
	QueueContent = "content"

	cascadeMaxRetry = 10
)

// CascadeDeletePayload is the JSON body of a [TaskCascadeDelete] task.
type CascadeDeletePayload struct {
	UserID string `json:"user_id"`
}

// NewCascadeDeleteTask builds the asynq task for userID.
func NewCascadeDeleteTask(userID string) (*asynq.Task, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("cascade delete: empty user id")
	}
	body, err := json.Marshal(CascadeDeletePayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCascadeDelete, body, asynq.Queue(QueueContent), asynq.MaxRetry(cascadeMaxRetry)), nil
}

// NewCascader returns the emitter selected by cfg.CascadeQueue.
func NewCascader(cfg config.Workers, log *logger.Logger) (Cascader, error) {
	switch cfg.CascadeQueue {
	case "", config.CascadeLog:
		return NewLogCascader(log), nil
	case config.CascadeAsynq:
		return NewAsynqCascader(asynq.RedisClientOpt{Addr: cfg.RedisAddress}, log), nil
	default:
		return nil, fmt.Errorf("unknown cascade queue %q", cfg.CascadeQueue)
	}
}

// LogCascader records cascade signals in the log only. It serves
// deployments where the content store is reconciled from logs or absent.
type LogCascader struct {
	logger *logger.Logger
}

func NewLogCascader(log *logger.Logger) *LogCascader {
	return &LogCascader{logger: log}
}

func (c *LogCascader) CascadeDelete(ctx context.Context, userID string) error {
	logger.FromContext(ctx).Info().
		Str("task", TaskCascadeDelete).
		Str("user_id", userID).
		Msg("content cascade requested")
	return nil
}

func (c *LogCascader) Close() error { return nil }

// enqueuer is the subset of *asynq.Client used by AsynqCascader.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// AsynqCascader enqueues a [TaskCascadeDelete] task per deleted user.
type AsynqCascader struct {
	client enqueuer
	logger *logger.Logger
}

// NewAsynqCascader connects lazily to the broker at opts.
func NewAsynqCascader(opts asynq.RedisConnOpt, log *logger.Logger) *AsynqCascader {
	return &AsynqCascader{client: asynq.NewClient(opts), logger: log}
}

func (c *AsynqCascader) CascadeDelete(ctx context.Context, userID string) error {
	task, err := NewCascadeDeleteTask(userID)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskCascadeDelete, err)
	}

	logger.FromContext(ctx).Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("user_id", userID).
		Msg("content cascade enqueued")
	return nil
}

func (c *AsynqCascader) Close() error {
	return c.client.Close()
}
