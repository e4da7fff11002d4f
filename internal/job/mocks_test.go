package job

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
	"github.com/cardifyai-code/cardifyai/internal/segment"
	"github.com/cardifyai-code/cardifyai/internal/store"
	"github.com/cardifyai-code/cardifyai/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockJobStore is an in-memory store.JobStore that records every
// status observed through Update, so tests can assert on the full
// lifecycle a job went through.
type mockJobStore struct {
	mu            sync.Mutex
	jobs          map[uuid.UUID]domain.GenerationJob
	statusHistory map[uuid.UUID][]domain.JobStatus
	createErr     error
	updateErr     error
}

func newMockJobStore() *mockJobStore {
	return &mockJobStore{
		jobs:          make(map[uuid.UUID]domain.GenerationJob),
		statusHistory: make(map[uuid.UUID][]domain.JobStatus),
	}
}

func (m *mockJobStore) Create(ctx context.Context, job *domain.GenerationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.jobs[job.ID] = *job
	m.statusHistory[job.ID] = append(m.statusHistory[job.ID], job.Status)
	return nil
}

func (m *mockJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return &job, nil
}

func (m *mockJobStore) Update(ctx context.Context, job *domain.GenerationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.jobs[job.ID]; !ok {
		return store.ErrJobNotFound
	}
	m.jobs[job.ID] = *job
	m.statusHistory[job.ID] = append(m.statusHistory[job.ID], job.Status)
	return nil
}

func (m *mockJobStore) WithTx(tx *sql.Tx) store.JobStore { return m }

func (m *mockJobStore) history(id uuid.UUID) []domain.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.JobStatus, len(m.statusHistory[id]))
	copy(out, m.statusHistory[id])
	return out
}

// mockCardStore collects cards passed to CreateMultiple.
type mockCardStore struct {
	mu        sync.Mutex
	saved     []domain.Card
	createErr error
}

func (m *mockCardStore) CreateMultiple(ctx context.Context, cards []domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.saved = append(m.saved, cards...)
	return nil
}

func (m *mockCardStore) FindByJobID(ctx context.Context, jobID uuid.UUID) ([]domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Card
	for _, c := range m.saved {
		if c.JobID == jobID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore { return m }

func (m *mockCardStore) savedCards() []domain.Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Card, len(m.saved))
	copy(out, m.saved)
	return out
}

// mockQuota implements QuotaService with canned clamp results.
type mockQuota struct {
	mu         sync.Mutex
	enforceN   int
	enforceErr error
	recorded   []int
	recordErr  error
}

func (m *mockQuota) Enforce(ctx context.Context, accountID uuid.UUID, requested int) (int, error) {
	if m.enforceErr != nil {
		return 0, m.enforceErr
	}
	if m.enforceN > 0 && m.enforceN < requested {
		return m.enforceN, nil
	}
	return requested, nil
}

func (m *mockQuota) RecordUsage(ctx context.Context, accountID uuid.UUID, actualCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, actualCount)
	return nil
}

func (m *mockQuota) recordedCounts() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.recorded))
	copy(out, m.recorded)
	return out
}

// mockGenerator returns canned card contents.
type mockGenerator struct {
	mu       sync.Mutex
	contents []domain.CardContent
	err      error
	calls    int
}

func (m *mockGenerator) GenerateAll(ctx context.Context, segments []segment.Segment, totalRequested int) ([]domain.CardContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := m.contents
	if len(out) > totalRequested {
		out = out[:totalRequested]
	}
	return out, nil
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockTaskStore implements task.Store and records status updates.
type mockTaskStore struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]task.Status
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{statuses: make(map[uuid.UUID]task.Status)}
}

func (m *mockTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[t.ID()] = task.StatusPending
	return nil
}

func (m *mockTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status task.Status, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[taskID] = status
	return nil
}

func (m *mockTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return nil, nil
}

func (m *mockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Task, error) {
	return nil, nil
}

func (m *mockTaskStore) statusOf(id uuid.UUID) task.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[id]
}

// mockTransactor runs the function directly with a nil transaction.
// The mock stores ignore the transaction handle, so this exercises the
// same code path without a database.
type mockTransactor struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockTransactor) Transact(ctx context.Context, fn store.TxFn) error {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(ctx, nil)
}

func (m *mockTransactor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockRunner records submitted tasks without executing them.
type mockRunner struct {
	mu        sync.Mutex
	submitted []task.Task
	submitErr error
}

func (m *mockRunner) Submit(ctx context.Context, t task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return m.submitErr
	}
	m.submitted = append(m.submitted, t)
	return nil
}

func (m *mockRunner) submittedTasks() []task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]task.Task, len(m.submitted))
	copy(out, m.submitted)
	return out
}
