package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/worker"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// fakeStore — хранилище, собирающее пачки; опционально падает.
type fakeStore struct {
	mu      sync.Mutex
	batches [][]domain.OrderRecord
	failErr error
	block   chan struct{} // если не nil — SaveOrders ждёт закрытия
}

func (f *fakeStore) SaveOrders(_ context.Context, orders []domain.OrderRecord) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.batches = append(f.batches, orders)
	return nil
}

func (f *fakeStore) saved() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func batch(srids ...string) []domain.OrderRecord {
	out := make([]domain.OrderRecord, 0, len(srids))
	for _, s := range srids {
		out = append(out, domain.OrderRecord{Srid: s})
	}
	return out
}

// Принятая пачка доходит до хранилища.
func TestSaver_SubmitAndDrain(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := worker.NewSaver(store, nopLogger{}, 4)

	go s.Run(context.Background()) //nolint:errcheck

	if err := s.Submit(context.Background(), batch("s1", "s2")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := s.Submit(context.Background(), batch("s3")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Close дожидается дозаписи всего принятого.
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := store.saved(); got != 2 {
		t.Fatalf("want 2 batches persisted, got %d", got)
	}
}

// Пустая пачка — no-op.
func TestSaver_EmptyBatch(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := worker.NewSaver(store, nopLogger{}, 1)
	go s.Run(context.Background()) //nolint:errcheck

	if err := s.Submit(context.Background(), nil); err != nil {
		t.Fatalf("empty Submit must be no-op, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := store.saved(); got != 0 {
		t.Fatalf("want 0 batches, got %d", got)
	}
}

// Заполненная очередь — ErrQueueFull, вызывающий не блокируется.
func TestSaver_QueueFull(t *testing.T) {
	t.Parallel()

	store := &fakeStore{block: make(chan struct{})}
	s := worker.NewSaver(store, nopLogger{}, 1)
	go s.Run(context.Background()) //nolint:errcheck

	// Первая пачка уходит воркеру и виснет в SaveOrders, вторая занимает очередь.
	if err := s.Submit(context.Background(), batch("s1")); err != nil {
		t.Fatalf("Submit 1: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := s.Submit(context.Background(), batch("s2")); err != nil {
		t.Fatalf("Submit 2: %v", err)
	}

	start := time.Now()
	err := s.Submit(context.Background(), batch("s3"))
	if !errors.Is(err, worker.ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatalf("Submit must not block, took %s", time.Since(start))
	}

	close(store.block)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := store.saved(); got != 2 {
		t.Fatalf("want 2 batches persisted, got %d", got)
	}
}

// После Close приём прекращается.
func TestSaver_SubmitAfterClose(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := worker.NewSaver(store, nopLogger{}, 1)
	go s.Run(context.Background()) //nolint:errcheck

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Submit(context.Background(), batch("s1")); !errors.Is(err, worker.ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
	// Повторный Close — no-op.
	if err := s.Close(); err != nil {
		t.Fatalf("repeated Close: %v", err)
	}
}

// Ошибка хранилища не останавливает воркер: следующие пачки сохраняются.
func TestSaver_StoreFailureDoesNotStopWorker(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failErr: errors.New("db down")}
	s := worker.NewSaver(store, nopLogger{}, 4)
	go s.Run(context.Background()) //nolint:errcheck

	if err := s.Submit(context.Background(), batch("s1")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	// Хранилище починилось.
	store.mu.Lock()
	store.failErr = nil
	store.mu.Unlock()

	if err := s.Submit(context.Background(), batch("s2")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := store.saved(); got != 1 {
		t.Fatalf("want 1 batch persisted after recovery, got %d", got)
	}
}

// Close без запущенного Run не блокируется.
func TestSaver_CloseWithoutRun(t *testing.T) {
	t.Parallel()

	s := worker.NewSaver(&fakeStore{}, nopLogger{}, 1)

	done := make(chan struct{})
	go func() {
		_ = s.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Close must not block when Run was never started")
	}
}
