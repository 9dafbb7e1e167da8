package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/wb_abc/config"
	cachemem "github.com/Gunvolt24/wb_abc/internal/cache/memory"
	"github.com/Gunvolt24/wb_abc/internal/kafka"
	"github.com/Gunvolt24/wb_abc/internal/ports"
	"github.com/Gunvolt24/wb_abc/internal/repo/postgres"
	rest "github.com/Gunvolt24/wb_abc/internal/transport/http"
	"github.com/Gunvolt24/wb_abc/internal/usecase"
	"github.com/Gunvolt24/wb_abc/internal/wbclient"
	"github.com/Gunvolt24/wb_abc/internal/worker"
	"github.com/Gunvolt24/wb_abc/pkg/logger"
	"github.com/Gunvolt24/wb_abc/pkg/metrics"
	"github.com/Gunvolt24/wb_abc/pkg/telemetry"
	"github.com/Gunvolt24/wb_abc/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, фоновые воркеры).
type App struct {
	Logger          ports.Logger       // логгер
	HTTPServer      *http.Server       // HTTP-сервер
	MetricsServer   *http.Server       // отдельный listener /metrics (nil — выключен)
	Background      []ports.Background // воркер очереди или kafka-консьюмер
	gracefulTimeout time.Duration      // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// reportCacheFromConfig — кэш отчётов по конфигурации.
// Capacity <= 0 выключает кэширование: сервис получает nil и каждый
// запрос идёт в апстрим (и в передачу на сохранение).
func reportCacheFromConfig(cfg config.Cache) ports.ReportCache {
	if cfg.Capacity <= 0 {
		return nil
	}
	return cachemem.NewLRUCacheTTL(cfg.Capacity, cfg.TTL)
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Пул подключений Postgres
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Клиент Statistics API: транспорт создаётся в Open.
	client := wbclient.New(wbclient.Config{
		BaseURL:       cfg.WB.BaseURL,
		Credentials:   wbclient.StaticCredential(cfg.WB.APIKey),
		Timeout:       cfg.WB.Timeout,
		MaxConcurrent: cfg.WB.MaxConcurrent,
	})
	if err := client.Open(); err != nil {
		pool.Close()
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}
	ordersAPI := wbclient.NewOrdersAPI(client)

	// Хранилище и передача заказов на сохранение (worker или kafka).
	store := postgres.NewOrderStore(pool)

	var (
		sink       ports.OrderSink
		background []ports.Background
		closeSink  func() error = func() error { return nil }
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Persist.Mode)) {
	case "", "worker":
		saver := worker.NewSaver(store, logg, cfg.Persist.QueueSize)
		sink = saver
		background = append(background, saver)
		closeSink = saver.Close
	case "kafka":
		publisher := kafka.NewPublisher(&kafka.PublisherConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, logg)

		// Публикация идёт через ту же очередь воркера, что и прямое
		// сохранение: Submit остаётся неблокирующим, медленный брокер
		// не задерживает ответ с отчётом.
		publishQueue := worker.NewSaver(publisher, logg, cfg.Persist.QueueSize)
		sink = publishQueue
		background = append(background, publishQueue)
		closeSink = func() error {
			// Сначала дренаж очереди, затем writer.
			qErr := publishQueue.Close()
			if pErr := publisher.Close(); pErr != nil {
				return pErr
			}
			return qErr
		}

		// Консьюмер сохраняет опубликованные заказы в Postgres.
		ingest := usecase.NewIngestService(store, validate.NewOrderRecordValidator(), logg)
		consumer := kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}, ingest, logg)
		background = append(background, consumer)
	default:
		client.Close() //nolint:errcheck
		pool.Close()
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, fmt.Errorf("unknown persist mode %q (want worker or kafka)", cfg.Persist.Mode)
	}

	// Кэш готовых отчётов (Capacity <= 0 — кэширование выключено) и оркестратор.
	reportService := usecase.NewReportService(ordersAPI, sink, reportCacheFromConfig(cfg.Cache), logg, usecase.Config{
		ThresholdA:       cfg.Report.ThresholdA,
		ThresholdB:       cfg.Report.ThresholdB,
		ExcludeCancelled: cfg.Report.ExcludeCancelled,
		MaxAgeDays:       cfg.Report.MaxAgeDays,
		TruncationHint:   cfg.Report.TruncationHint,
	})

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Роутер и HTTP-сервер (otelgin — только при включённом трейсинге).
	httpHandler := rest.NewHandler(reportService, logg)
	var extra []gin.HandlerFunc
	if cfg.Tracing.Enabled {
		extra = append(extra, otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	router := rest.NewRouter(httpHandler, extra...)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	// Отдельный listener для метрик: скрейп не ходит через основной
	// пайплайн (request-id, request-логгер) и переживает его нагрузку.
	var metricsSrv *http.Server
	if cfg.Metrics.Addr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		}
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		Background:      background,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if sErr := closeSink(); sErr != nil {
			logg.Warnf(ctx, "sink close error: %v", sErr)
		}
		for _, bg := range app.Background {
			if bErr := bg.Close(); bErr != nil {
				logg.Warnf(ctx, "background close error: %v", bErr)
			}
		}
		if cErr := client.Close(); cErr != nil {
			logg.Warnf(ctx, "wb client close error: %v", cErr)
		}

		pool.Close()
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и фоновые воркеры; ждёт отмены контекста
// или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, len(a.Background)+1)

	// Запуск фоновых компонентов (воркер очереди / kafka-консьюмер).
	for _, bg := range a.Background {
		bg := bg
		go func() {
			if err := bg.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Запуск отдельного сервера метрик (если настроен).
	if a.MetricsServer != nil {
		go func() {
			a.Logger.Infof(ctx, "metrics server starting (addr=%s)", a.MetricsServer.Addr)
			if err := a.MetricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	if a.MetricsServer != nil {
		if err := a.MetricsServer.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "metrics server shutdown failed: %v", err)
		}
	}

	// Остановка фоновых компонентов: воркер дренирует очередь до конца.
	for _, bg := range a.Background {
		if err := bg.Close(); err != nil {
			a.Logger.Warnf(ctx, "background close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
