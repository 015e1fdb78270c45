package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gunvolt24/merchant_dash/config"
	"github.com/Gunvolt24/merchant_dash/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// фейковый консьюмер, который ждёт отмены контекста
type fakeConsumer struct {
	runCalls   int32
	closeCalls int32
}

func (f *fakeConsumer) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCalls, 1)
	<-ctx.Done()
	return ctx.Err()
}
func (f *fakeConsumer) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

type fakeWatcher struct {
	activated int32
	stopped   int32
}

func (f *fakeWatcher) Activate(context.Context) error {
	atomic.AddInt32(&f.activated, 1)
	return nil
}
func (f *fakeWatcher) Stop() { atomic.AddInt32(&f.stopped, 1) }

func TestAppRun_GracefulShutdown(t *testing.T) {
	// HTTP-сервер на случайном свободном порту
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	fc := &fakeConsumer{}
	fw := &fakeWatcher{}
	a := &app.App{
		Logger:        nopLogger{},
		HTTPServer:    srv,
		KafkaConsumer: fc,
		Watcher:       fw,
		AutoActivate:  true,
	}

	// Запуск и быстрая остановка
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if atomic.LoadInt32(&fc.runCalls) == 0 {
		t.Fatalf("consumer.Run should be called")
	}
	if atomic.LoadInt32(&fc.closeCalls) == 0 {
		t.Fatalf("consumer.Close should be called")
	}
	if atomic.LoadInt32(&fw.activated) != 1 || atomic.LoadInt32(&fw.stopped) != 1 {
		t.Fatalf("watcher: activated=%d stopped=%d", fw.activated, fw.stopped)
	}
}

func TestAppRun_WithoutKafkaAndSession(t *testing.T) {
	fw := &fakeWatcher{}
	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		Watcher:    fw,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, a.Run(ctx))
	assert.Zero(t, atomic.LoadInt32(&fw.activated), "no saved session, watcher waits for the screen")
	assert.Equal(t, int32(1), atomic.LoadInt32(&fw.stopped))
}

func TestBootstrap_SQLiteNoSession(t *testing.T) {
	cfg, err := config.LoadWithPrefix("MERCHANT_BOOTSTRAP_TEST")
	require.NoError(t, err)
	cfg.HTTP.GinMode = "test"
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "merchant.db")
	cfg.Upload.Provider = "none"
	cfg.Alert.Bell = false

	a, cleanup, err := app.Bootstrap(context.Background(), &cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.False(t, a.AutoActivate)
	assert.Nil(t, a.KafkaConsumer)
	assert.Nil(t, a.MetricsServer)

	rec := httptest.NewRecorder()
	a.HTTPServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// без подписки на сервер: статус подписки отдаётся из памяти
	rec = httptest.NewRecorder()
	a.HTTPServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subscription", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"expired":false}`, rec.Body.String())
}

func TestBootstrap_UnknownStorageDriver(t *testing.T) {
	cfg, err := config.LoadWithPrefix("MERCHANT_BOOTSTRAP_BAD")
	require.NoError(t, err)
	cfg.HTTP.GinMode = "test"
	cfg.Storage.Driver = "mongo"

	_, _, err = app.Bootstrap(context.Background(), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}
