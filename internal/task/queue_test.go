package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockTask implements the Task interface for testing
type mockTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	status   Status
	execFn   func(ctx context.Context) error
}

func (m *mockTask) ID() uuid.UUID {
	return m.id
}

func (m *mockTask) Type() string {
	return m.taskType
}

func (m *mockTask) Payload() []byte {
	return m.payload
}

func (m *mockTask) Status() Status {
	return m.status
}

func (m *mockTask) Execute(ctx context.Context) error {
	if m.execFn != nil {
		return m.execFn(ctx)
	}
	return nil
}

func newMockTask() *mockTask {
	return &mockTask{
		id:       uuid.New(),
		taskType: "mock",
		payload:  []byte("test payload"),
		status:   StatusPending,
		execFn:   nil,
	}
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestNewQueue(t *testing.T) {
	logger := setupTestLogger()
	queueSize := 10
	queue := NewQueue(queueSize, logger)

	assert.NotNil(t, queue)
	assert.Equal(t, queueSize, cap(queue.tasks))
	assert.False(t, queue.closed)
}

func TestEnqueue(t *testing.T) {
	logger := setupTestLogger()
	queue := NewQueue(2, logger)

	// Test successful enqueue
	task1 := newMockTask()
	err := queue.Enqueue(task1)
	assert.NoError(t, err)

	task2 := newMockTask()
	err = queue.Enqueue(task2)
	assert.NoError(t, err)

	// Queue is now full
	task3 := newMockTask()
	err = queue.Enqueue(task3)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestEnqueueClosedQueue(t *testing.T) {
	logger := setupTestLogger()
	queue := NewQueue(2, logger)
	queue.Close()

	err := queue.Enqueue(newMockTask())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	logger := setupTestLogger()
	queue := NewQueue(2, logger)

	queue.Close()
	assert.NotPanics(t, func() { queue.Close() })
}

func TestEnqueueConcurrentWithClose(t *testing.T) {
	logger := setupTestLogger()
	queue := NewQueue(4, logger)

	// Drain so enqueuers never block on a full buffer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range queue.GetChannel() {
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := queue.Enqueue(newMockTask()); err != nil {
					assert.True(t, errors.Is(err, ErrQueueClosed) || errors.Is(err, ErrQueueFull))
				}
			}
		}()
	}

	queue.Close()
	wg.Wait()
	<-done

	assert.ErrorIs(t, queue.Enqueue(newMockTask()), ErrQueueClosed)
}

func TestGetChannelDeliversInOrder(t *testing.T) {
	logger := setupTestLogger()
	queue := NewQueue(3, logger)

	task1 := newMockTask()
	task2 := newMockTask()
	assert.NoError(t, queue.Enqueue(task1))
	assert.NoError(t, queue.Enqueue(task2))

	ch := queue.GetChannel()
	assert.Equal(t, task1.ID(), (<-ch).ID())
	assert.Equal(t, task2.ID(), (<-ch).ID())
}
