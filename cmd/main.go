package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	appointmentsHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/appointments"
	catalogHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/catalog"
	createAppointmentHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/create_appointment"
	estimateDurationHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/estimate_duration"
	getAvailableSlotsHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_available_slots"
	settingsHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/settings"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/config"
	"github.com/m04kA/SMC-GroomingService/internal/infra/reservation"
	appointmentRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/appointment"
	capacityRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/capacity"
	petRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/pet"
	profileRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/profile"
	scheduleRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/schedule"
	serviceRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/estimator"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/photostorage"
	appointmentsService "github.com/m04kA/SMC-GroomingService/internal/service/appointments"
	capacityService "github.com/m04kA/SMC-GroomingService/internal/service/capacity"
	catalogService "github.com/m04kA/SMC-GroomingService/internal/service/catalog"
	settingsService "github.com/m04kA/SMC-GroomingService/internal/service/settings"
	"github.com/m04kA/SMC-GroomingService/internal/service/slots"
	createAppointmentUC "github.com/m04kA/SMC-GroomingService/internal/usecase/create_appointment"
	estimateDurationUC "github.com/m04kA/SMC-GroomingService/internal/usecase/estimate_duration"
	getAvailableSlotsUC "github.com/m04kA/SMC-GroomingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/metrics"
	"github.com/m04kA/SMC-GroomingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-GroomingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Salon.Location()
	if err != nil {
		log.Fatal("Invalid salon timezone: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	capacityRepository := capacityRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	petRepository := petRepo.NewRepository(wrappedDB)
	profileRepository := profileRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	// Краткосрочное удержание слотов в Redis (при недоступности остается только транзакция)
	var locker createAppointmentUC.SlotLocker = reservation.NoopLocker{}
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unreachable at %s, slot holds will be skipped until it recovers: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
		cancelPing()
		locker = reservation.NewRedisLocker(rdb, cfg.Redis.ReservationTTL(), metricsCollector, log)
	}

	// Внешний сервис оценки длительности (опционально)
	var estimatorClient estimateDurationUC.Estimator
	if cfg.Estimator.Enabled {
		estimatorClient = estimator.NewClient(
			cfg.Estimator.URL,
			cfg.Estimator.APIKey,
			time.Duration(cfg.Estimator.Timeout)*time.Second,
			log,
		)
		log.Info("Estimator client initialized (url=%s timeout=%ds)", cfg.Estimator.URL, cfg.Estimator.Timeout)
	}

	// Хранилище фотографий (опционально)
	var photos catalogService.PhotoStorage
	if cfg.Storage.Enabled {
		photos = photostorage.New(photostorage.Config{
			Endpoint:      cfg.Storage.Endpoint,
			Region:        cfg.Storage.Region,
			Bucket:        cfg.Storage.Bucket,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		log.Info("Photo storage initialized (bucket=%s)", cfg.Storage.Bucket)
	}
	maxUploadBytes := int64(cfg.Storage.MaxUploadMB) << 20

	// Инициализируем сервисы
	capacityResolver := capacityService.NewResolver(capacityRepository)
	generator := slots.NewGenerator(
		scheduleRepository,
		appointmentRepository,
		serviceRepository,
		capacityResolver,
		location,
		metricsCollector,
		log,
	)

	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		petRepository,
		profileRepository,
		generator,
		txMgr,
		log,
	)
	settingsSvc := settingsService.NewService(
		scheduleRepository,
		capacityRepository,
		txMgr,
		log,
	)
	catalogSvc := catalogService.NewService(
		serviceRepository,
		petRepository,
		photos,
		maxUploadBytes,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(generator, log)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		generator,
		appointmentRepository,
		petRepository,
		profileRepository,
		locker,
		txMgr,
		metricsCollector,
		log,
	)
	estimateDurationUseCase := estimateDurationUC.NewUseCase(generator, petRepository, estimatorClient, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	estimateDuration := estimateDurationHandler.NewHandler(estimateDurationUseCase, log)
	appointmentsH := appointmentsHandler.NewHandler(appointmentsSvc, log)
	settingsH := settingsHandler.NewHandler(settingsSvc, log)
	catalogH := catalogHandler.NewHandler(catalogSvc, maxUploadBytes, log)

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, profileRepository, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты (с ограничением частоты запросов)
	slotsRouter := api.PathPrefix("/slots").Subrouter()
	if cfg.RateLimit.Enabled {
		slotsRouter.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware)
		log.Info("Rate limit on slot queries: rps=%.1f burst=%d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	slotsRouter.HandleFunc("/available", getAvailableSlots.Handle).Methods(http.MethodPost)
	slotsRouter.HandleFunc("/available", getAvailableSlots.HandleGet).Methods(http.MethodGet)

	// Каталог услуг и настройки салона
	api.HandleFunc("/services", catalogH.ListServices).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}", catalogH.GetService).Methods(http.MethodGet)
	api.HandleFunc("/business-hours", settingsH.ListBusinessHours).Methods(http.MethodGet)
	api.HandleFunc("/default-capacity", settingsH.GetDefaultCapacity).Methods(http.MethodGet)
	api.HandleFunc("/staff-schedules", settingsH.ListStaffSchedules).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", appointmentsH.ListMine).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/estimate", estimateDuration.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", appointmentsH.Get).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/cancel", appointmentsH.Cancel).Methods(http.MethodPatch)

	// --- Питомцы ---
	protected.HandleFunc("/pets", catalogH.ListMyPets).Methods(http.MethodGet)
	protected.HandleFunc("/pets", catalogH.CreatePet).Methods(http.MethodPost)
	protected.HandleFunc("/pets/{id}", catalogH.GetPet).Methods(http.MethodGet)
	protected.HandleFunc("/pets/{id}", catalogH.UpdatePet).Methods(http.MethodPatch)
	protected.HandleFunc("/pets/{id}", catalogH.DeletePet).Methods(http.MethodDelete)
	protected.HandleFunc("/pets/{id}/photo", catalogH.UploadPetPhoto).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (роль admin в профиле)
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	// --- Календарь записей ---
	admin.HandleFunc("/appointments", createAppointment.HandleAdmin).Methods(http.MethodPost)
	admin.HandleFunc("/appointments", appointmentsH.ListByRange).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}/status", appointmentsH.UpdateStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{id}/reschedule", appointmentsH.Reschedule).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{id}", appointmentsH.Delete).Methods(http.MethodDelete)

	// --- Рабочие часы и блокировки ---
	admin.HandleFunc("/business-hours/{day}", settingsH.UpsertBusinessHours).Methods(http.MethodPut)
	admin.HandleFunc("/blocked-times", settingsH.ListBlockedTimes).Methods(http.MethodGet)
	admin.HandleFunc("/blocked-times", settingsH.CreateBlockedTime).Methods(http.MethodPost)
	admin.HandleFunc("/blocked-times/{id}", settingsH.UpdateBlockedTime).Methods(http.MethodPatch)
	admin.HandleFunc("/blocked-times/{id}", settingsH.DeleteBlockedTime).Methods(http.MethodDelete)

	// --- Вместимость ---
	admin.HandleFunc("/staff-schedules", settingsH.CreateStaffSchedule).Methods(http.MethodPost)
	admin.HandleFunc("/staff-schedules/{id}", settingsH.UpdateStaffSchedule).Methods(http.MethodPatch)
	admin.HandleFunc("/staff-schedules/{id}", settingsH.DeleteStaffSchedule).Methods(http.MethodDelete)
	admin.HandleFunc("/default-capacity", settingsH.SetDefaultCapacity).Methods(http.MethodPut)

	// --- Каталог ---
	admin.HandleFunc("/services", catalogH.ListAllServices).Methods(http.MethodGet)
	admin.HandleFunc("/services", catalogH.CreateService).Methods(http.MethodPost)
	admin.HandleFunc("/services/{id}", catalogH.UpdateService).Methods(http.MethodPatch)
	admin.HandleFunc("/services/{id}", catalogH.DeactivateService).Methods(http.MethodDelete)
	admin.HandleFunc("/pets", catalogH.SearchPets).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
