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
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-SportsBooking/internal/api/handlers"
	activitiesHandler "github.com/m04kA/SMC-SportsBooking/internal/api/handlers/activities"
	membersHandler "github.com/m04kA/SMC-SportsBooking/internal/api/handlers/members"
	reservationsHandler "github.com/m04kA/SMC-SportsBooking/internal/api/handlers/reservations"
	"github.com/m04kA/SMC-SportsBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SportsBooking/internal/config"
	activityRepo "github.com/m04kA/SMC-SportsBooking/internal/infra/storage/activity"
	memberRepo "github.com/m04kA/SMC-SportsBooking/internal/infra/storage/member"
	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage/memory"
	reservationRepo "github.com/m04kA/SMC-SportsBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage/schema"
	"github.com/m04kA/SMC-SportsBooking/internal/service/booking"
	"github.com/m04kA/SMC-SportsBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportsBooking/pkg/logger"
	"github.com/m04kA/SMC-SportsBooking/pkg/metrics"
	"github.com/m04kA/SMC-SportsBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SportsBooking/pkg/txmanager"
)

// storage репозитории и менеджер транзакций выбранного драйвера
type storage struct {
	activities   booking.ActivityRepository
	members      booking.MemberRepository
	reservations booking.ReservationRepository
	txManager    booking.TransactionManager
	ping         func(ctx context.Context) error
	close        func() error
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
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

	log.Info("Starting SMC-SportsBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Инициализируем сервис
	opts := []booking.Option{
		booking.WithStrictCapacityEdits(cfg.Booking.StrictCapacityEdits),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, booking.WithDecisionRecorder(metricsCollector))
	}

	bookingSvc := booking.NewService(
		store.activities,
		store.members,
		store.reservations,
		store.txManager,
		log,
		opts...,
	)
	log.Info("Booking service initialized (strict_capacity_edits=%t)", cfg.Booking.StrictCapacityEdits)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := store.ping(req.Context()); err != nil {
			log.Error("GET /health - Storage unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	activitiesHandler.NewHandler(bookingSvc, log).Register(api)
	membersHandler.NewHandler(bookingSvc, log).Register(api)
	reservationsHandler.NewHandler(bookingSvc, log).Register(api)

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

	log.Info("Server stopped gracefully")
}

// openStorage создает репозитории для драйвера из конфигурации
// memory хранит данные в процессе, postgres и sqlite работают через database/sql
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		log.Info("Using in-memory storage, data is lost on restart")
		return &storage{
			activities:   store.Activities(),
			members:      store.Members(),
			reservations: store.Reservations(),
			txManager:    txmanager.NoopManager{},
			ping:         func(context.Context) error { return nil },
			close:        func() error { return nil },
		}, nil
	}

	dialect, err := psqlbuilder.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	// Для SQLite одно соединение: запись в файл все равно последовательная
	if dialect == psqlbuilder.SQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if dialect == psqlbuilder.SQLite {
		log.Info("Successfully connected to database (driver=sqlite, path=%s)", cfg.Database.Path)
	} else {
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopCh)
	if m != nil {
		log.Info("Database metrics collection started")
	}

	if cfg.Database.AutoMigrate {
		if err := schema.Apply(ctx, wrappedDB, dialect); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Database schema applied (dialect=%s)", dialect)
	}

	var txOpts []txmanager.Option
	if dialect == psqlbuilder.SQLite {
		txOpts = append(txOpts, txmanager.WithSerializableLevel(sql.LevelDefault), txmanager.WithoutReadOnly())
	}

	return &storage{
		activities:   activityRepo.NewRepository(wrappedDB, dialect),
		members:      memberRepo.NewRepository(wrappedDB, dialect),
		reservations: reservationRepo.NewRepository(wrappedDB, dialect),
		txManager:    txmanager.NewTransactionManager(wrappedDB, txOpts...),
		ping:         db.PingContext,
		close:        db.Close,
	}, nil
}
