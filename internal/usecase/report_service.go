package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/wb_abc/internal/abc"
	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/ports"
	"github.com/Gunvolt24/wb_abc/pkg/metrics"
)

// ErrRangeTooOld — дата начала периода старше допустимой глубины выгрузки.
// Проверяется до любого сетевого вызова: квота запросов к апстриму не тратится.
var ErrRangeTooOld = errors.New("report range is older than allowed")

// ErrEmptyResult — после выборки и фильтрации не осталось ни одного заказа.
// Видимая вызывающему ошибка: отчёт по пустой выборке не имеет смысла.
var ErrEmptyResult = errors.New("list of orders is empty")

// Config — параметры оркестратора отчётов.
type Config struct {
	ThresholdA       float64
	ThresholdB       float64
	ExcludeCancelled bool
	MaxAgeDays       int // глубина выгрузки апстрима (политика Statistics API)
	TruncationHint   int // порог подозрения на усечение ответа в режиме since

	// Now — источник текущего времени; nil означает time.Now (подменяется в тестах).
	Now func() time.Time
}

// Проверка, что ReportService удовлетворяет порту ReportBuilder.
var _ ports.ReportBuilder = (*ReportService)(nil)

// ReportService — оркестратор отчёта: выборка заказов за период,
// ABC-классификация, неблокирующая передача сырых заказов на сохранение.
type ReportService struct {
	api   ports.OrdersAPI
	sink  ports.OrderSink
	cache ports.ReportCache // может быть nil — кэширование выключено
	log   ports.Logger

	params         abc.Params
	maxAgeDays     int
	truncationHint int
	now            func() time.Time
}

// NewReportService — DI-конструктор.
func NewReportService(
	api ports.OrdersAPI,
	sink ports.OrderSink,
	cache ports.ReportCache,
	log ports.Logger,
	cfg Config,
) *ReportService {
	if cfg.ThresholdA <= 0 {
		cfg.ThresholdA = 80.0
	}
	if cfg.ThresholdB <= 0 {
		cfg.ThresholdB = 95.0
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 90
	}
	if cfg.TruncationHint <= 0 {
		cfg.TruncationHint = 95000
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &ReportService{
		api:   api,
		sink:  sink,
		cache: cache,
		log:   log,
		params: abc.Params{
			ThresholdA:       cfg.ThresholdA,
			ThresholdB:       cfg.ThresholdB,
			ExcludeCancelled: cfg.ExcludeCancelled,
		},
		maxAgeDays:     cfg.MaxAgeDays,
		truncationHint: cfg.TruncationHint,
		now:            cfg.Now,
	}
}

// FetchOrders — выборка заказов за период.
// Шаги:
//  1. проверка глубины: если от начала периода прошло больше maxAgeDays — ErrRangeTooOld;
//  2. конец не задан → один запрос в режиме точного совпадения, без клиентской фильтрации;
//  3. конец задан → один запрос в режиме since + клиентский фильтр
//     lastChangeDate <= конец дня To (включительно), порядок записей сохраняется;
//  4. пустая выборка после фильтрации — ErrEmptyResult.
//
// Ретраев здесь нет: ошибки клиента пробрасываются без изменений.
func (s *ReportService) FetchOrders(ctx context.Context, period domain.DateRange) ([]domain.OrderRecord, error) {
	today := dateOf(s.now())
	days := int(today.Sub(period.From).Hours() / 24)
	if days > s.maxAgeDays {
		return nil, fmt.Errorf("%w: date_from=%s is %d days old (max %d)",
			ErrRangeTooOld, period.From.Format(domain.DateLayout), days, s.maxAgeDays)
	}

	dateFrom := period.From.Format(domain.DateLayout)

	if !period.HasTo() {
		orders, err := s.api.Orders(ctx, dateFrom, ports.FlagExact)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, ErrEmptyResult
		}
		return orders, nil
	}

	orders, err := s.api.Orders(ctx, dateFrom, ports.FlagSince)
	if err != nil {
		return nil, err
	}

	// Апстрим ограничивает ответ в режиме since (~100k строк): количество
	// рядом с потолком означает вероятное молчаливое усечение выгрузки.
	if len(orders) >= s.truncationHint {
		metrics.TruncationSuspected.Inc()
		s.log.Warnf(ctx, "since-mode response is near the upstream cap: rows=%d (result may be truncated)", len(orders))
	}

	endOfTo := period.EndOfTo()
	filtered := orders[:0:0]
	for _, order := range orders {
		if !order.LastChangeDate.After(endOfTo) {
			filtered = append(filtered, order)
		}
	}

	if len(filtered) == 0 {
		return nil, ErrEmptyResult
	}
	return filtered, nil
}

// RunReport — полный цикл отчёта: кэш → выборка → классификация →
// неблокирующая передача сырых заказов на сохранение.
// Отказ передачи на сохранение логируется и никогда не превращает
// успешный отчёт в ошибку.
func (s *ReportService) RunReport(ctx context.Context, period domain.DateRange) ([]domain.ABCItem, error) {
	key := period.Key()
	if s.cache != nil {
		if items, ok := s.cache.Get(ctx, key); ok {
			s.log.Infof(ctx, "report cache hit period=%s", key)
			return items, nil
		}
	}

	orders, err := s.FetchOrders(ctx, period)
	if err != nil {
		metrics.ReportErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}

	items := abc.Classify(orders, s.params)

	if submitErr := s.sink.Submit(ctx, orders); submitErr != nil {
		metrics.PersistBatches.WithLabelValues("dropped").Inc()
		s.log.Errorf(ctx, "persistence handoff rejected batch size=%d err=%v", len(orders), submitErr)
	}

	if s.cache != nil {
		if setErr := s.cache.Set(ctx, key, items); setErr != nil {
			s.log.Warnf(ctx, "report cache set failed period=%s err=%v", key, setErr)
		}
	}

	metrics.ReportsBuilt.Inc()
	s.log.Infof(ctx, "report built period=%s orders=%d products=%d", key, len(orders), len(items))
	return items, nil
}

// dateOf — календарная дата момента времени (полночь UTC).
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// errorKind — метка вида ошибки для метрик.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrRangeTooOld):
		return "range_too_old"
	case errors.Is(err, ErrEmptyResult):
		return "empty_result"
	default:
		return "fetch"
	}
}
