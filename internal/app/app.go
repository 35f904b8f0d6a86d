// Package app собирает сервис заказов из конфигурации и запускает его.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
	healthcheck "github.com/ryan24411390/clearr-vision-sub000/internal/health"
	"github.com/ryan24411390/clearr-vision-sub000/internal/notify"
	"github.com/ryan24411390/clearr-vision-sub000/internal/service/httpapi"
	"github.com/ryan24411390/clearr-vision-sub000/internal/service/order"
	"github.com/ryan24411390/clearr-vision-sub000/internal/storage/memory"
	"github.com/ryan24411390/clearr-vision-sub000/internal/storage/postgres"
	"github.com/ryan24411390/clearr-vision-sub000/internal/version"
)

// Config описывает настройки запуска сервиса заказов.
type Config struct {
	// HTTPAddr — адрес публичного API.
	HTTPAddr string
	// OpsAddr — адрес служебного листенера (/metrics, /healthz, /livez).
	OpsAddr string
	// PostgresDSN — строка подключения; пустая означает in-memory хранилище.
	PostgresDSN string
	// AdminPassword и AdminSecret — пароль админки и ключ подписи сессий.
	AdminPassword string
	AdminSecret   string
	// BaseURL попадает в ссылку на заказ в уведомлении оператору.
	BaseURL string
	// Notify — SMTP-доставка уведомлений; при пустом Host уведомления
	// пишутся в журнал.
	Notify notify.EmailConfig
}

// DefaultConfig возвращает базовые адреса сервиса.
func DefaultConfig() Config {
	return Config{
		HTTPAddr: ":8080",
		OpsAddr:  ":9090",
	}
}

// ReadConfig собирает конфигурацию из переменных окружения CLEARR_*.
func ReadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("CLEARR_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("CLEARR_OPS_ADDR"); v != "" {
		cfg.OpsAddr = v
	}
	cfg.PostgresDSN = os.Getenv("CLEARR_POSTGRES_DSN")
	cfg.AdminPassword = os.Getenv("CLEARR_ADMIN_PASSWORD")
	cfg.AdminSecret = os.Getenv("CLEARR_ADMIN_SECRET")
	cfg.BaseURL = os.Getenv("CLEARR_BASE_URL")

	cfg.Notify = notify.EmailConfig{
		Host:     os.Getenv("CLEARR_NOTIFY_SMTP_HOST"),
		Port:     587,
		Username: os.Getenv("CLEARR_NOTIFY_SMTP_USER"),
		Password: os.Getenv("CLEARR_NOTIFY_SMTP_PASSWORD"),
		From:     os.Getenv("CLEARR_NOTIFY_FROM"),
		To:       os.Getenv("CLEARR_NOTIFY_TO"),
		BaseURL:  cfg.BaseURL,
	}
	if v := os.Getenv("CLEARR_NOTIFY_SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Notify.Port = port
		}
	}

	return cfg
}

// Run поднимает сервис и блокируется до отмены контекста или ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	healthHandler := healthcheck.NewHandler(version.GetVersion())

	// Хранилище: Postgres при наличии DSN, иначе память.
	var repo domain.OrderRepository
	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		repo = postgres.NewOrderRepository(store)
		healthHandler.RegisterFunc("postgres", func() error {
			return store.Ping(context.Background())
		})
		logger.Info("using postgres order storage")
	} else {
		repo = memory.NewOrderRepository()
		logger.Warn("CLEARR_POSTGRES_DSN not set, using in-memory order storage")
	}

	// Уведомления оператора: SMTP при полной конфигурации, иначе журнал.
	var notifier domain.Notifier
	if cfg.Notify.Enabled() {
		notifier = notify.NewEmailNotifier(cfg.Notify)
		logger.WithField("smtp_host", cfg.Notify.Host).Info("operator notifications via email")
	} else {
		notifier = notify.NewLogNotifier()
	}

	orders := order.New(repo, notifier, log.WithField("component", "order-service"))
	defer orders.Close()

	if cfg.AdminPassword == "" {
		logger.Warn("CLEARR_ADMIN_PASSWORD not set, admin endpoints will reject all logins")
	}
	auth := httpapi.NewAdminAuth(cfg.AdminPassword, cfg.AdminSecret)

	api := httpapi.New(orders, auth, log.WithField("component", "http"))
	apiSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	opsSrv := startOpsServer(ctx, cfg.OpsAddr, logger, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("API сервер слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем API сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(opsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startOpsServer запускает служебный HTTP-листенер с метриками и health-ручками.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
