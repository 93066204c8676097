package workers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
)

// fakeEnqueuer captures enqueued tasks instead of talking to redis.
type fakeEnqueuer struct {
	tasks  []*asynq.Task
	err    error
	closed bool
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueContent, Type: task.Type()}, nil
}

func (f *fakeEnqueuer) Close() error {
	f.closed = true
	return nil
}

func TestNewCascadeDeleteTask(t *testing.T) {
	task, err := NewCascadeDeleteTask("u-1")
	require.NoError(t, err)
	assert.Equal(t, TaskCascadeDelete, task.Type())

	var payload CascadeDeletePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "u-1", payload.UserID)

	_, err = NewCascadeDeleteTask("  ")
	assert.Error(t, err)
}

func TestAsynqCascader_CascadeDelete(t *testing.T) {
	fake := &fakeEnqueuer{}
	c := &AsynqCascader{client: fake, logger: logger.Nop()}

	require.NoError(t, c.CascadeDelete(context.Background(), "u-1"))
	require.Len(t, fake.tasks, 1)
	assert.JSONEq(t, `{"user_id":"u-1"}`, string(fake.tasks[0].Payload()))

	require.NoError(t, c.Close())
	assert.True(t, fake.closed)
}

func TestAsynqCascader_EnqueueFailure(t *testing.T) {
	fake := &fakeEnqueuer{err: assert.AnError}
	c := &AsynqCascader{client: fake, logger: logger.Nop()}

	err := c.CascadeDelete(context.Background(), "u-1")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), TaskCascadeDelete)
}

func TestNewCascader(t *testing.T) {
	c, err := NewCascader(config.Workers{CascadeQueue: config.CascadeLog}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogCascader{}, c)
	assert.NoError(t, c.CascadeDelete(context.Background(), "u-1"))
	assert.NoError(t, c.Close())

	_, err = NewCascader(config.Workers{CascadeQueue: "kafka"}, logger.Nop())
	assert.Error(t, err)
}
