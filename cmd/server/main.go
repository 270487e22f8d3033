package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/cache"
	"github.com/ignatzorin/iyaya-backend/internal/config"
	"github.com/ignatzorin/iyaya-backend/internal/db"
	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/iyaya-backend/internal/http/handlers"
	"github.com/ignatzorin/iyaya-backend/internal/http/middleware"
	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	httpRouter "github.com/ignatzorin/iyaya-backend/internal/http/router"
	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/metrics"
	"github.com/ignatzorin/iyaya-backend/internal/notify"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
	"github.com/ignatzorin/iyaya-backend/internal/service"
	"github.com/ignatzorin/iyaya-backend/internal/storage"
	"github.com/ignatzorin/iyaya-backend/internal/workers"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}
	response.SetDebug(!cfg.IsProduction())

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPoolOptions)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка миграций")
	}
	gw := common.NewGateway(dbConn, common.DefaultRelations())

	healthChecks := map[string]httpHandlers.HealthCheck{
		"database": func(ctx context.Context) error { return dbConn.PingContext(ctx) },
	}

	// Redis общий для кэша настроек и rate limiter; без него всё живёт в памяти процесса.
	var (
		redisClient   *redis.Client
		settingsCache cache.Store
	)
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка подключения к redis")
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Log.WithError(err).Warn("main: ошибка закрытия redis")
			}
		}()
		settingsCache = cache.NewRedis(redisClient, "iyaya:")
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		memoryCache := cache.NewMemory(time.Minute)
		defer memoryCache.Close()
		settingsCache = memoryCache
	}

	limiterStore, err := middleware.NewLimiterStore(redisClient)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: не удалось создать хранилище rate limiter")
	}

	// Доказательства оплаты без настроенного хранилища отдаются без подписанных ссылок.
	var proofObjects service.ProofObjects
	if cfg.ObjectStore.Enabled() {
		objectStore, err := storage.NewObjectStore(cfg.ObjectStore)
		if err != nil {
			logger.Log.WithError(err).Fatal("main: не удалось подготовить объектное хранилище")
		}
		proofObjects = objectStore
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.SMTP.Enabled() {
		sender = notify.NewSMTPSender(cfg.SMTP)
	}
	mailer := notify.NewMailer(sender)

	appMetrics := metrics.New("iyaya")

	transitions, err := valueobject.NewJobTransitions(cfg.JobApproveStatus)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: некорректный JOB_APPROVE_STATUS")
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(gw)
	historyRepo := repository.NewStatusHistoryRepository(gw)
	jobRepo := repository.NewJobRepository(gw)
	bookingRepo := repository.NewBookingRepository(gw)
	paymentRepo := repository.NewPaymentRepository(gw)
	reportRepo := repository.NewReportRepository(gw)
	auditRepo := repository.NewAuditLogRepository(gw)
	settingsRepo := repository.NewSettingsRepository(gw)

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.AuthJWTSecret)
	authService := service.NewAuthService(tokenManager, userRepo)
	auditService := service.NewAuditService(auditRepo, appMetrics)
	userService := service.NewUserService(userRepo, auditService)
	userStatusService := service.NewUserStatusService(userRepo, historyRepo, auditService, mailer, appMetrics, cfg.DefaultSuspensionDays)
	jobService := service.NewJobService(jobRepo, transitions, auditService, appMetrics)
	bookingService := service.NewBookingService(bookingRepo, auditService, appMetrics)
	paymentService := service.NewPaymentService(paymentRepo, proofObjects, auditService, appMetrics)
	reportService := service.NewReportService(reportRepo, userRepo, auditService, appMetrics)
	settingsService := service.NewSettingsService(settingsRepo, settingsCache, cfg.SettingsTTL, auditService)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Health:   httpHandlers.NewHealthHandler(healthChecks),
		Profile:  httpHandlers.NewProfileHandler(userService),
		Users:    httpHandlers.NewAdminUserHandler(userService, userStatusService),
		Jobs:     httpHandlers.NewAdminJobHandler(jobService),
		Bookings: httpHandlers.NewAdminBookingHandler(bookingService),
		Payments: httpHandlers.NewPaymentHandler(paymentService),
		Reports:  httpHandlers.NewReportHandler(reportService),
		Audit:    httpHandlers.NewAuditHandler(auditService),
		Settings: httpHandlers.NewSettingsHandler(settingsService),
	}, httpRouter.Deps{
		Actors:       authService,
		Maintenance:  settingsService,
		LimiterStore: limiterStore,
		Metrics:      appMetrics,
	})

	// Возврат пользователей из истёкшей приостановки.
	worker := workers.NewSuspensionWorker(userStatusService, appMetrics, cfg.SuspensionSweepInterval)
	goroutine.SafeGoWithContext(ctx, "suspension-sweep", worker.Run)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithFields(logrus.Fields{
		"port":         cfg.HTTPPort,
		"env":          cfg.Env,
		"redis":        redisClient != nil,
		"object_store": proofObjects != nil,
		"smtp":         cfg.SMTP.Enabled(),
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Warn("main: ошибка закрытия базы")
	}
}
