// Пакет worker — фоновое сохранение выбранных заказов: отвязанная от
// ответа вызывающему очередь с собственным логированием ошибок.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/ports"
	"github.com/Gunvolt24/wb_abc/pkg/metrics"
)

// Проверка, что Saver удовлетворяет портам OrderSink и Background.
var (
	_ ports.OrderSink  = (*Saver)(nil)
	_ ports.Background = (*Saver)(nil)
)

// ErrQueueFull — очередь сохранения заполнена, пачка отброшена.
var ErrQueueFull = errors.New("persistence queue is full")

// ErrClosed — приём новых пачек прекращён.
var ErrClosed = errors.New("persistence queue is closed")

const defaultSaveTimeout = 30 * time.Second

// Saver — внутрипроцессная очередь сохранения пачек заказов.
// Submit неблокирующий; воркер дописывает принятые пачки до конца
// даже при остановке приложения (очередь дренируется в Close).
type Saver struct {
	store ports.OrderStore
	log   ports.Logger

	queue       chan []domain.OrderRecord
	saveTimeout time.Duration

	mu      sync.Mutex
	closed  bool
	started bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewSaver — конструктор. queueSize ограничивает количество ожидающих пачек.
func NewSaver(store ports.OrderStore, log ports.Logger, queueSize int) *Saver {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Saver{
		store:       store,
		log:         log,
		queue:       make(chan []domain.OrderRecord, queueSize),
		saveTimeout: defaultSaveTimeout,
		done:        make(chan struct{}),
	}
}

// Submit — неблокирующая передача пачки на сохранение.
// Вызывающий логирует ошибку, но не пробрасывает её своему клиенту.
func (s *Saver) Submit(_ context.Context, orders []domain.OrderRecord) error {
	if len(orders) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	select {
	case s.queue <- orders:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run — цикл воркера: сохраняет пачки до закрытия и полного дренажа очереди.
// Отмена ctx не бросает принятую пачку на полпути: запись идёт под
// собственным таймаутом, независимым от жизни входящего запроса.
func (s *Saver) Run(ctx context.Context) error {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	defer close(s.done)

	for batch := range s.queue {
		s.save(ctx, batch)
	}
	return nil
}

// Close — прекращает приём, дожидается дозаписи всего принятого.
func (s *Saver) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		started := s.started
		close(s.queue)
		s.mu.Unlock()

		// Дожидаемся дренажа только если воркер был запущен.
		if started {
			<-s.done
		}
	})
	return nil
}

// save — одна пачка: успех или залогированный отказ, без проброса наверх.
func (s *Saver) save(ctx context.Context, batch []domain.OrderRecord) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	start := time.Now()
	if err := s.store.SaveOrders(saveCtx, batch); err != nil {
		metrics.PersistBatches.WithLabelValues("failed").Inc()
		s.log.Errorf(ctx, "persist batch failed size=%d err=%v", len(batch), err)
		return
	}

	metrics.PersistBatches.WithLabelValues("ok").Inc()
	metrics.OrdersPersisted.Add(float64(len(batch)))
	s.log.Infof(ctx, "persisted %d orders in %s", len(batch), time.Since(start))
}
