package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Gunvolt24/merchant_dash/config"
	"github.com/Gunvolt24/merchant_dash/internal/alert"
	cachemem "github.com/Gunvolt24/merchant_dash/internal/cache/memory"
	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/kafka"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/internal/remote"
	"github.com/Gunvolt24/merchant_dash/internal/session"
	"github.com/Gunvolt24/merchant_dash/internal/settings"
	"github.com/Gunvolt24/merchant_dash/internal/storage/postgres"
	"github.com/Gunvolt24/merchant_dash/internal/storage/sqlite"
	"github.com/Gunvolt24/merchant_dash/internal/subscription"
	rest "github.com/Gunvolt24/merchant_dash/internal/transport/http"
	"github.com/Gunvolt24/merchant_dash/internal/upload"
	"github.com/Gunvolt24/merchant_dash/internal/usecase"
	"github.com/Gunvolt24/merchant_dash/internal/watcher"
	"github.com/Gunvolt24/merchant_dash/pkg/logger"
	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
	"github.com/Gunvolt24/merchant_dash/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Watcher — то, что приложению нужно от наблюдателя заказов.
type Watcher interface {
	Activate(ctx context.Context) error
	Stop()
}

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer, наблюдатель).
type App struct {
	Logger        ports.Logger          // логгер
	HTTPServer    *http.Server          // локальный API
	MetricsServer *http.Server          // отдельный /metrics; nil — только на основном роутере
	KafkaConsumer ports.MessageConsumer // подсказки о событиях; nil — Kafka выключена
	Watcher       Watcher               // наблюдатель заказов
	// AutoActivate — включить наблюдатель сразу (есть сохранённая сессия).
	AutoActivate    bool
	gracefulTimeout time.Duration // время ожидания завершения HTTP-сервера
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

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	closers := []func(){func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}}
	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, Cleanup, error) {
		cleanup()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	if cfg.Tracing.Enabled {
		shutdownTrace, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			closers = append(closers, func() {
				if terr := shutdownTrace(context.Background()); terr != nil {
					logg.Warnf(ctx, "shutdown tracing: %v", terr)
				}
			})
		}
	}

	// Хранилище сессии и настроек.
	kv, closeKV, err := OpenStorage(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeKV)
	logg.Infof(ctx, "storage ready driver=%s", cfg.Storage.Driver)

	sessions := session.NewStore(kv, logg)
	settingsStore := settings.NewStore(kv, logg)
	gate := subscription.NewGate()

	// Удалённый API.
	client := remote.New(remote.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Tracing:   cfg.Tracing.Enabled,
	}, sessions, logg)

	authService := usecase.NewAuthService(client, sessions, logg)
	user, err := authService.Restore(ctx)
	if err != nil {
		logg.Warnf(ctx, "session restore failed: %v", err)
	}

	// Оповещения: локальные устройства и, при настройке, Kafka.
	device := NewDeviceNotifier(cfg, settingsStore, os.Stdout, logg)
	sink, closeSink := buildAlertSink(cfg, device, sessions, logg)
	closers = append(closers, closeSink)

	orderWatcher := watcher.New(client, sink, gate, logg, watcher.Config{
		Interval:        cfg.Watcher.Interval,
		CatchUpOnResume: cfg.Watcher.CatchUpOnResume,
		AlertTimeout:    cfg.Alert.Timeout,
	})
	orderWatcher.OnError(func(err error) {
		if errors.Is(err, domain.ErrUnauthorized) {
			logg.Warnf(ctx, "session rejected by server, sign in again")
		}
	})

	// Каталог.
	productCache := cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL)
	uploader, err := buildUploader(ctx, cfg)
	if err != nil {
		logg.Warnf(ctx, "image upload disabled: %v", err)
	}

	svc := rest.Services{
		Auth:       authService,
		Orders:     usecase.NewOrderBoard(orderWatcher),
		Watcher:    orderWatcher,
		Products:   usecase.NewProductService(client, productCache, uploader, logg),
		Settings:   settingsStore,
		Billing:    usecase.NewBillingService(client, gate, logg),
		Restaurant: usecase.NewRestaurantService(client, cfg.Web.MenuBaseURL),
		Alerts:     device,
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(svc, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, cfg.HTTP.StaticDir, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var metricsSrv *http.Server
	if addr := strings.TrimSpace(cfg.Metrics.Addr); addr != "" && addr != cfg.HTTP.Addr {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout}
	}

	// Консьюмер Kafka: подсказки «заказы изменились» → внеочередной опрос.
	var consumer ports.MessageConsumer
	if cfg.Kafka.Enabled {
		consumer = kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.EventsTopic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
			Coalesce:       cfg.Kafka.Coalesce,
		}, orderWatcher, logg)
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		KafkaConsumer:   consumer,
		Watcher:         orderWatcher,
		AutoActivate:    cfg.Watcher.AutoActivate && user != nil,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	return app, cleanup, nil
}

// OpenStorage — KV по драйверу из конфигурации и функция его закрытия.
func OpenStorage(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", "sqlite":
		kv, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewKV(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewDeviceNotifier — звук и вибрация на этом устройстве; BEL пишется в bell.
// Используется и наблюдателем, и пробным оповещением из настроек.
func NewDeviceNotifier(cfg *config.Config, loader alert.SettingsLoader, bell io.Writer, log ports.Logger) *alert.Notifier {
	var player alert.Player
	if cmd := strings.TrimSpace(cfg.Alert.PlayerCmd); cmd != "" {
		player = alert.NewExecPlayer(cmd, cfg.Alert.PlayerArgs, cfg.Alert.SoundDir)
	}
	var vibrator alert.Vibrator
	if cfg.Alert.Bell && bell != nil {
		vibrator = alert.NewBellVibrator(bell)
	}
	return alert.NewNotifier(loader, player, vibrator, cfg.Alert.Pulse, log)
}

// buildAlertSink — устройство плюс, если задан топик, публикация в Kafka.
func buildAlertSink(cfg *config.Config, device *alert.Notifier, sessions *session.Store, log ports.Logger) (ports.AlertSink, func()) {
	sinks := []alert.Named{{Name: "device", Sink: device}}
	closeFn := func() {}

	if topic := strings.TrimSpace(cfg.Kafka.AlertsTopic); topic != "" {
		publisher := kafka.NewAlertPublisher(&kafka.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   topic,
		}, sessions)
		sinks = append(sinks, alert.Named{Name: "kafka", Sink: publisher})
		closeFn = func() {
			if err := publisher.Close(); err != nil {
				log.Warnf(context.Background(), "alert publisher close error: %v", err)
			}
		}
	}
	return alert.NewFanout(sinks...), closeFn
}

// buildUploader — загрузчик фото по провайдеру; none → nil (загрузка выключена).
func buildUploader(ctx context.Context, cfg *config.Config) (ports.ImageUploader, error) {
	u := cfg.Upload
	switch strings.ToLower(strings.TrimSpace(u.Provider)) {
	case "cloudinary":
		up, err := upload.NewCloudinaryUploader(upload.CloudinaryConfig{
			BaseURL:   u.CloudinaryBaseURL,
			CloudName: u.CloudinaryCloud,
			Preset:    u.CloudinaryPreset,
			Timeout:   u.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return up, nil
	case "s3":
		up, err := upload.NewS3Uploader(ctx, upload.S3Config{
			Bucket:        u.S3Bucket,
			Region:        u.S3Region,
			Endpoint:      u.S3Endpoint,
			Prefix:        u.S3Prefix,
			PublicBaseURL: u.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return up, nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown upload provider %q", u.Provider)
	}
}

// Run — запускает HTTP-сервер, консьюмера и наблюдатель; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	// Запуск консьюмера.
	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
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

	if a.MetricsServer != nil {
		go func() {
			a.Logger.Infof(ctx, "metrics server starting (addr=%s)", a.MetricsServer.Addr)
			if err := a.MetricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Сессия уже есть — экран заказов открыт сразу.
	if a.AutoActivate && a.Watcher != nil {
		if err := a.Watcher.Activate(ctx); err != nil {
			a.Logger.Warnf(ctx, "initial order poll failed: %v", err)
		}
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

	// Таймер опроса больше не нужен.
	if a.Watcher != nil {
		a.Watcher.Stop()
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-серверов.
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

	// Остановка Kafka-консьюмера
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
