package app_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gunvolt24/wb_abc/internal/app"
	"github.com/Gunvolt24/wb_abc/internal/ports"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// фейковый фоновый компонент, который ждёт отмены контекста
type fakeBackground struct {
	runCalls   int32
	closeCalls int32
	runErr     error
}

func (f *fakeBackground) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCalls, 1)
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeBackground) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

var _ ports.Background = (*fakeBackground)(nil)

func TestAppRun_GracefulShutdown(t *testing.T) {
	// HTTP-сервер на случайном свободном порту
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	fb := &fakeBackground{}
	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: srv,
		Background: []ports.Background{fb},
	}

	// Запуск и быстрая остановка
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if atomic.LoadInt32(&fb.runCalls) == 0 {
		t.Fatalf("background.Run should be called")
	}
	if atomic.LoadInt32(&fb.closeCalls) == 0 {
		t.Fatalf("background.Close should be called")
	}
}

// Отдельный listener метрик поднимается вместе с приложением и
// останавливается при graceful shutdown.
func TestAppRun_MetricsServerServesAndStops(t *testing.T) {
	metricsAddr := freeAddr(t)

	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: srv,
		MetricsServer: &http.Server{
			Addr:    metricsAddr,
			Handler: metricsMux,
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	// Дожидаемся, пока listener метрик начнёт отвечать.
	var scraped bool
	for i := 0; i < 50; i++ {
		resp, err := http.Get("http://" + metricsAddr + "/metrics")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				scraped = true
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	if !scraped {
		cancel()
		t.Fatalf("metrics endpoint did not respond on %s", metricsAddr)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}

	// После остановки скрейп должен падать по соединению.
	if resp, err := http.Get("http://" + metricsAddr + "/metrics"); err == nil {
		resp.Body.Close()
		t.Fatalf("metrics endpoint still answers after shutdown")
	}
}

// свободный адрес для listener в тесте
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestAppRun_BackgroundErrorTriggersShutdown(t *testing.T) {
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	fb := &fakeBackground{runErr: errors.New("boom")}
	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: srv,
		Background: []ports.Background{fb},
	}

	// Контекст не отменяем: остановку должна вызвать ошибка компонента.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after background error")
	}

	if atomic.LoadInt32(&fb.closeCalls) == 0 {
		t.Fatalf("background.Close should be called")
	}
}
