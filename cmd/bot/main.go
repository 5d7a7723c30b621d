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

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/avkuzn/Salon-BookingBot/internal/api/handlers/cancel_appointment"
	createHoldHandler "github.com/avkuzn/Salon-BookingBot/internal/api/handlers/create_hold"
	decideAppointmentHandler "github.com/avkuzn/Salon-BookingBot/internal/api/handlers/decide_appointment"
	getAvailableSlotsHandler "github.com/avkuzn/Salon-BookingBot/internal/api/handlers/get_available_slots"
	"github.com/avkuzn/Salon-BookingBot/internal/api/middleware"
	"github.com/avkuzn/Salon-BookingBot/internal/config"
	appointmentRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/appointment"
	blockedRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/blocked"
	catalogRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/catalog"
	settingsRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/settings"
	"github.com/avkuzn/Salon-BookingBot/internal/scheduler"
	appointmentsService "github.com/avkuzn/Salon-BookingBot/internal/service/appointments"
	settingsService "github.com/avkuzn/Salon-BookingBot/internal/service/settings"
	"github.com/avkuzn/Salon-BookingBot/internal/telegram"
	createHoldUC "github.com/avkuzn/Salon-BookingBot/internal/usecase/create_hold"
	getAvailableSlotsUC "github.com/avkuzn/Salon-BookingBot/internal/usecase/get_available_slots"
	runMaintenanceUC "github.com/avkuzn/Salon-BookingBot/internal/usecase/run_maintenance"
	"github.com/avkuzn/Salon-BookingBot/pkg/logger"
	"github.com/avkuzn/Salon-BookingBot/pkg/metrics"
	"github.com/avkuzn/Salon-BookingBot/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting Salon-BookingBot...")

	// Таймзона салона
	location, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики, endpoint выставляется только если включен
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(db)
	blockedRepository := blockedRepo.NewRepository(db)
	catalogRepository := catalogRepo.NewRepository(db)
	settingsRepository := settingsRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, txMgr, log)
	settingsSvc := settingsService.NewService(settingsRepository, txMgr, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		blockedRepository,
		catalogRepository,
		settingsRepository,
		location,
		log,
	)
	createHoldUseCase := createHoldUC.NewUseCase(
		appointmentRepository,
		blockedRepository,
		catalogRepository,
		settingsRepository,
		txMgr,
		location,
		log,
	)
	runMaintenanceUseCase := runMaintenanceUC.NewUseCase(appointmentRepository, txMgr, log)

	// Инициализируем Telegram бота
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatal("Failed to initialize telegram bot: %v", err)
	}
	log.Info("Authorized telegram bot @%s", bot.Self.UserName)

	router := telegram.NewRouter(
		bot,
		log,
		getAvailableSlotsUseCase,
		createHoldUseCase,
		appointmentsSvc,
		settingsSvc,
		catalogRepository,
		settingsRepository,
		blockedRepository,
		location,
		cfg.Telegram.AdminChatID,
	)

	// Планировщик обслуживающего прохода
	sched := scheduler.New(
		runMaintenanceUseCase,
		router,
		metricsCollector,
		log,
		time.Duration(cfg.Booking.MaintenanceInterval)*time.Second,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go router.Run(ctx)
	go sched.Run(ctx)

	// Настраиваем HTTP роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(cfg.Server.APIToken))

	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	createHold := createHoldHandler.NewHandler(createHoldUseCase, location, log)
	decideAppointment := decideAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)

	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments", createHold.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/decision", decideAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
