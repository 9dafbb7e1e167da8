package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/ports"
	"github.com/segmentio/kafka-go"
)

// Проверка, что Publisher удовлетворяет порту OrderStore:
// «сохранение» пачки — это её публикация в топик. Неблокирующую передачу
// обеспечивает worker.Saver, внутрь которого Publisher подключается
// вместо Postgres-хранилища (см. app.Bootstrap).
var _ ports.OrderStore = (*Publisher)(nil)

// PublisherConfig — параметры подключения продьюсера заказов.
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// writer — минимальный контракт над kafka.Writer для подмены в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher публикует заказы отчёта в топик вместо прямой записи в БД.
// Каждый заказ — отдельное сообщение с ключом srid (идемпотентность на стороне консьюмера).
type Publisher struct {
	writer    writer
	log       ports.Logger
	closeOnce sync.Once
}

// NewPublisher — конструктор. RequireOne: достаточно подтверждения лидера партиции.
func NewPublisher(cfg *PublisherConfig, log ports.Logger) *Publisher {
	bt := cfg.BatchTimeout
	if bt <= 0 {
		bt = 100 * time.Millisecond
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: bt,
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{writer: w, log: log}
}

// SaveOrders сериализует каждый заказ и отправляет пачкой в топик.
// Вызов синхронный: ждёт подтверждения брокера. Вызывающий (воркер очереди)
// работает в фоне под собственным контекстом, не на пути ответа клиенту.
func (p *Publisher) SaveOrders(ctx context.Context, orders []domain.OrderRecord) error {
	if len(orders) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(orders))
	for i := range orders {
		payload, err := json.Marshal(&orders[i])
		if err != nil {
			return fmt.Errorf("failed to encode order srid=%s: %w", orders[i].Srid, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(orders[i].Srid),
			Value: payload,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish orders: %w", err)
	}

	p.log.Infof(ctx, "published %d order(s) to kafka", len(msgs))
	return nil
}

// Close — закрывает writer. Вызывается при остановке приложения,
// после дренажа очереди воркера.
func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
