package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/ports"
	"github.com/Gunvolt24/wb_abc/pkg/metrics"
)

// IngestService — приём событий заказов из очереди и сохранение в хранилище.
// Используется консьюмером Kafka при Persist.Mode = "kafka".
type IngestService struct {
	store     ports.OrderStore
	validator ports.OrderValidator
	log       ports.Logger
}

// NewIngestService — DI-конструктор.
func NewIngestService(store ports.OrderStore, validator ports.OrderValidator, log ports.Logger) *IngestService {
	return &IngestService{store: store, validator: validator, log: log}
}

// SaveFromEvent — сохранить запись заказа, пришедшую из очереди (raw JSON).
// Шаги:
//  1. строгий парсинг JSON (DisallowUnknownFields) — отлавливаем чужие события в топике;
//  2. доменная валидация (вернёт validate.ErrInvalidOrder при проблемах);
//  3. транзакционное сохранение (идемпотентные upsert измерений + вставка заказа).
func (s *IngestService) SaveFromEvent(ctx context.Context, raw []byte) error {
	var record domain.OrderRecord
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&record); err != nil {
		s.log.Warnf(ctx, "invalid event json err=%v", err)
		return fmt.Errorf("invalid json: %w", err)
	}

	// Убеждаемся, что после объекта нет лишних данных.
	if err := dec.Decode(new(struct{})); err != io.EOF {
		s.log.Warnf(ctx, "invalid event json: trailing data")
		return fmt.Errorf("invalid json: trailing data")
	}

	if err := s.validator.Validate(ctx, &record); err != nil {
		s.log.Warnf(ctx, "validation failed srid=%s err=%v", record.Srid, err)
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.store.SaveOrders(ctx, []domain.OrderRecord{record}); err != nil {
		s.log.Errorf(ctx, "store.SaveOrders failed srid=%s err=%v", record.Srid, err)
		return fmt.Errorf("failed to save order: %w", err)
	}

	metrics.OrdersPersisted.Inc()
	return nil
}
