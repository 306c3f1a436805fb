// Package app содержит основную структуру приложения и логику инициализации.
// Собирает клиент USI, сервис, обработчики и маршруты с middleware.
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/usi_gateway.git/internal/buildinfo"
	"github.com/InQaaaaGit/usi_gateway.git/internal/config"
	"github.com/InQaaaaGit/usi_gateway.git/internal/handler"
	"github.com/InQaaaaGit/usi_gateway.git/internal/metrics"
	"github.com/InQaaaaGit/usi_gateway.git/internal/middleware"
	"github.com/InQaaaaGit/usi_gateway.git/internal/service"
	"github.com/InQaaaaGit/usi_gateway.git/internal/usiclient"
)

// App представляет приложение шлюза проверки USI.
type App struct {
	config  *config.Config   // Конфигурация приложения
	router  *chi.Mux         // HTTP роутер для обработки запросов
	logger  *zap.Logger      // Логгер для записи событий приложения
	handler *handler.Handler // Обработчики HTTP запросов
	metrics *metrics.Metrics // Метрики Prometheus
}

// NewApp создает приложение и настраивает маршруты.
// Возвращает ошибку для некорректной конфигурации или недоступного файла записей.
func NewApp(cfg *config.Config, logger *zap.Logger, info buildinfo.Info) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating USI client: %w", err)
	}

	m := metrics.New()
	svc := service.NewVerificationService(client, cfg, logger, m)

	a := &App{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		handler: handler.NewHandler(svc, cfg, logger, info.Version),
		metrics: m,
	}
	a.setupRoutes()

	return a, nil
}

// NewClient создает клиент USI для режима из конфигурации
func NewClient(cfg *config.Config, logger *zap.Logger) (usiclient.Client, error) {
	switch cfg.ClientMode {
	case usiclient.ModeSOAP:
		return usiclient.NewSOAPClient(cfg.ServiceURL, cfg.RequestTimeout, logger), nil
	case usiclient.ModeMemory:
		client := usiclient.NewMemoryClient(logger)
		if cfg.MemoryRecordsPath == "" {
			return client, nil
		}
		records, err := usiclient.LoadRecords(cfg.MemoryRecordsPath)
		if err != nil {
			return nil, err
		}
		loaded, err := client.Seed(records)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded USI records", zap.Int("count", loaded), zap.String("path", cfg.MemoryRecordsPath))
		return client, nil
	default:
		return nil, fmt.Errorf("%w: %q", usiclient.ErrUnknownMode, cfg.ClientMode)
	}
}

// setupRoutes регистрирует эндпоинты и middleware.
// Ключ доступа требуется только для /api/usi.
func (a *App) setupRoutes() {
	a.router.Use(chimiddleware.RequestID)
	a.router.Use(chimiddleware.Recoverer)
	a.router.Use(middleware.LoggerMiddleware(a.logger))
	a.router.Use(middleware.MetricsMiddleware(a.metrics))
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	a.router.Use(middleware.GzipMiddleware(a.logger))

	a.router.Get("/health", a.handler.HandleHealth)
	a.router.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	a.router.Route("/api/usi", func(r chi.Router) {
		r.Use(middleware.APIKeyMiddleware(a.config.APIKey, a.logger))
		r.Post("/verify", a.handler.HandleVerifyUSI)
		r.Post("/bulk-verify", a.handler.HandleBulkVerifyUSI)
		r.Get("/countries", a.handler.HandleCountries)
	})

	// Профилирование доступно только в окружении разработки
	if a.config.IsDevelopment() {
		a.router.Mount("/debug", chimiddleware.Profiler())
	}
}

// Router возвращает настроенный роутер
func (a *App) Router() http.Handler {
	return a.router
}

// GetServer создает и возвращает настроенный HTTP сервер.
// WriteTimeout больше таймаута запроса к USI, чтобы успеть отдать ошибку.
func (a *App) GetServer() *http.Server {
	return &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      a.config.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
