package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/barbershop-booking/internal/booking"
	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/config"
	appointmentRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/appointment"
	notificationRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/notification"
	roleRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/role"
	taskRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/task"
	vacationRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/vacation"
	"github.com/m04kA/barbershop-booking/internal/schedule"
	"github.com/m04kA/barbershop-booking/internal/tasks"
	cleanupUC "github.com/m04kA/barbershop-booking/internal/usecase/cleanup_appointments"
	"github.com/m04kA/barbershop-booking/pkg/dbmetrics"
	"github.com/m04kA/barbershop-booking/pkg/logger"
	"github.com/m04kA/barbershop-booking/pkg/metrics"
	"github.com/m04kA/barbershop-booking/pkg/txmanager"
)

// app общие зависимости всех команд
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	sqlDB   *sql.DB
	db      *dbmetrics.DB
	stopCh  chan struct{}

	cal       *calendar.Calendar
	checker   *booking.Checker
	txManager *txmanager.TransactionManager
	scheduler *tasks.Scheduler

	appointments  *appointmentRepo.Repository
	vacations     *vacationRepo.Repository
	notifications *notificationRepo.Repository
	roles         *roleRepo.Repository
	tasks         *taskRepo.Repository
}

// newApp загружает конфигурацию, поднимает логгер и соединение с базой
func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)

	a := &app{cfg: cfg, log: log, stopCh: make(chan struct{})}

	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		log.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	a.sqlDB = sqlDB
	// Без метрик обёртка просто проксирует запросы
	a.db = dbmetrics.WrapWithDefault(sqlDB, a.metrics, a.stopCh)

	a.cal = calendar.New(cfg.Business.Timezone, calendar.RealClock{}, log)
	a.checker = booking.NewChecker(a.cal, schedule.Default())
	a.txManager = txmanager.NewTransactionManager(a.db)

	a.appointments = appointmentRepo.NewRepository(a.db)
	a.vacations = vacationRepo.NewRepository(a.db)
	a.notifications = notificationRepo.NewRepository(a.db)
	a.roles = roleRepo.NewRepository(a.db)
	a.tasks = taskRepo.NewRepository(a.db)
	a.scheduler = tasks.NewScheduler(a.tasks, cfg.Tasks.MaxAttempts, log)

	return a, nil
}

func (a *app) cleanup() *cleanupUC.UseCase {
	return cleanupUC.NewUseCase(a.appointments, a.notifications, a.txManager, a.cal, a.metrics, a.log)
}

func (a *app) Close() {
	close(a.stopCh)
	if err := a.sqlDB.Close(); err != nil {
		a.log.Error("Failed to close database: %v", err)
	}
	a.log.Close()
}
