package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	cancelAppointmentHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/get_available_slots"
	getDateAppointmentsHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/get_date_appointments"
	getUserAppointmentsHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/get_user_appointments"
	identityWebhookHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/identity_webhook"
	listServicesHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/list_services"
	updateStatusHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/update_appointment_status"
	vacationsHandler "github.com/m04kA/barbershop-booking/internal/api/handlers/vacations"
	"github.com/m04kA/barbershop-booking/internal/api/middleware"
	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/internal/integrations/mailer"
	"github.com/m04kA/barbershop-booking/internal/notifications"
	appointmentsService "github.com/m04kA/barbershop-booking/internal/service/appointments"
	vacationsService "github.com/m04kA/barbershop-booking/internal/service/vacations"
	"github.com/m04kA/barbershop-booking/internal/tasks"
	createAppointmentUC "github.com/m04kA/barbershop-booking/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/barbershop-booking/internal/usecase/get_available_slots"
)

func newServeCmd(configPath *string) *cobra.Command {
	var withWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background task worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(cmd.Context(), a, withWorker)
		},
	}

	cmd.Flags().BoolVar(&withWorker, "worker", true, "process scheduled tasks in this process")
	return cmd
}

func serve(ctx context.Context, a *app, withWorker bool) error {
	cfg, log := a.cfg, a.log
	log.Info("Starting barbershop-booking...")

	log.Info("Business timezone %s, shop %q", a.cal.Location(), cfg.Business.ShopName)
	if !cfg.Mail.Enabled() {
		log.Warn("Mail is not configured: notifications will be logged as failed")
	}

	// Фоновые задачи
	worker := tasks.NewWorker(a.tasks, tasks.WorkerConfig{
		PollInterval: time.Duration(cfg.Tasks.PollInterval) * time.Second,
		BatchSize:    cfg.Tasks.BatchSize,
		Lease:        time.Duration(cfg.Tasks.Lease) * time.Second,
		Backoff:      time.Duration(cfg.Tasks.Backoff) * time.Second,
	}, a.metrics, log)

	mailClient := mailer.NewClient(
		cfg.Mail.BaseURL,
		cfg.Mail.APIKey,
		time.Duration(cfg.Mail.Timeout)*time.Second,
		cfg.Mail.RatePerSecond,
		log,
	)
	dispatcher := notifications.NewDispatcher(
		a.appointments,
		a.notifications,
		mailClient,
		notifications.Config{From: cfg.Mail.From, ShopName: cfg.Business.ShopName},
		a.metrics,
		log,
	)
	dispatcher.Register(worker)

	retentionEvery := time.Duration(cfg.Tasks.RetentionInterval) * time.Second
	cleanup := a.cleanup()
	worker.Register(domain.TaskRetentionSweep, a.scheduler.Recurring(domain.TaskRetentionSweep, retentionEvery,
		tasks.HandlerFunc(func(ctx context.Context, _ *domain.Task) error {
			_, err := cleanup.Execute(ctx)
			return err
		})))

	if withWorker {
		if created, err := a.scheduler.EnsureScheduled(ctx, domain.TaskRetentionSweep, 0); err != nil {
			log.Error("Failed to schedule retention sweep: %v", err)
		} else if created {
			log.Info("Retention sweep scheduled every %s", retentionEvery)
		}
	}

	// Сервисы и use cases
	appointmentSvc := appointmentsService.NewService(
		a.appointments,
		a.notifications,
		a.roles,
		a.scheduler,
		a.txManager,
		a.cal,
		appointmentsService.LinkConfig{
			DefaultBatch: cfg.Identity.LinkBatch,
			MaxBatch:     cfg.Identity.LinkBatchMax,
		},
		log,
	)
	vacationSvc := vacationsService.NewService(a.vacations, a.roles, a.cal, log)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		a.appointments,
		a.vacations,
		a.checker,
		a.scheduler,
		a.txManager,
		a.metrics,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		a.appointments,
		a.vacations,
		a.checker,
		log,
	)

	// Handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	getDateAppointments := getDateAppointmentsHandler.NewHandler(appointmentSvc, log)
	vacationsAdmin := vacationsHandler.NewHandler(vacationSvc, log)
	identityWebhook := identityWebhookHandler.NewHandler(appointmentSvc, calendar.RealClock{}, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (личность необязательна)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	public.HandleFunc("/services", listServicesHandler.Handle).Methods(http.MethodGet)
	public.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	// Анонимная запись тоже разрешена
	public.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	public.HandleFunc("/webhooks/identity", identityWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/me/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

	// --- Администрирование (роль проверяется в сервисах) ---
	protected.HandleFunc("/admin/appointments", getDateAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/admin/vacations", vacationsAdmin.List).Methods(http.MethodGet)
	protected.HandleFunc("/admin/vacations", vacationsAdmin.Create).Methods(http.MethodPost)
	protected.HandleFunc("/admin/vacations/{vacationId}", vacationsAdmin.Delete).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if withWorker {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	// Graceful shutdown по сигналу или падению соседней горутины
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Stopped with error: %v", err)
		return err
	}
	log.Info("Server stopped gracefully")
	return nil
}
