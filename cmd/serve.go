package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	cancelReservationHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/create_reservation"
	createSlotHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/create_slot"
	deleteReservationHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/delete_reservation"
	deleteSlotHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/delete_slot"
	getReservationHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/get_reservation"
	getSlotAvailabilityHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/get_slot_availability"
	getUserReservationsHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/get_user_reservations"
	listReservationsHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/list_reservations"
	listSlotsHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/list_slots"
	updateReservationHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/update_reservation"
	updateSlotHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairService/internal/infra/queue"
	catalogRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-RepairService/internal/notification"
	reservationsService "github.com/m04kA/SMC-RepairService/internal/service/reservations"
	"github.com/m04kA/SMC-RepairService/internal/service/scheduling"
	slotsService "github.com/m04kA/SMC-RepairService/internal/service/slots"
	cancelReservationUC "github.com/m04kA/SMC-RepairService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/SMC-RepairService/internal/usecase/create_reservation"
	deleteReservationUC "github.com/m04kA/SMC-RepairService/internal/usecase/delete_reservation"
	getSlotAvailabilityUC "github.com/m04kA/SMC-RepairService/internal/usecase/get_slot_availability"
	updateReservationUC "github.com/m04kA/SMC-RepairService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(app)
		},
	}
}

func runServe(a *App) error {
	cfg := a.cfg
	log := a.log

	log.Info("Starting SMC-RepairService...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, wrappedDB, err := a.openDB(metricsCollector, stopMetricsCh)
	if err != nil {
		return err
	}
	defer db.Close()

	txMgr := a.newTxManager(wrappedDB)

	// Репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	coordinator := scheduling.NewCoordinator(reservationRepository, slotRepository, log)

	// Уведомления: через очередь или напрямую
	var (
		dispatcher       updateReservationUC.Dispatcher
		directDispatcher *notification.DirectDispatcher
	)
	if cfg.Queue.Enabled {
		queueClient := queue.NewClient(cfg.Queue)
		defer queueClient.Close()
		dispatcher = notification.NewQueueDispatcher(queueClient, cfg.Queue.MaxRetry, log)
		log.Info("Notifications go through queue (redis=%s)", cfg.Queue.RedisAddr)
	} else {
		directDispatcher = notification.NewDirectDispatcher(
			newEmailSender(a),
			time.Duration(cfg.Mailer.Timeout)*time.Second,
			log,
		)
		dispatcher = directDispatcher
		log.Info("Queue disabled, notifications are sent directly")
	}

	// Сервисы
	slotSvc := slotsService.NewService(slotRepository, txMgr, log)
	reservationSvc := reservationsService.NewService(reservationRepository, log)

	// Use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		slotRepository,
		catalogRepository,
		coordinator,
		txMgr,
		metricsCollector,
		log,
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		coordinator,
		txMgr,
		dispatcher,
		metricsCollector,
		log,
	)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(reservationRepository, updateReservationUseCase, log)
	deleteReservationUseCase := deleteReservationUC.NewUseCase(
		reservationRepository,
		coordinator,
		txMgr,
		metricsCollector,
		log,
	)
	getSlotAvailabilityUseCase := getSlotAvailabilityUC.NewUseCase(
		slotRepository,
		reservationRepository,
		coordinator,
		txMgr,
		log,
	)

	// Handlers
	listSlots := listSlotsHandler.NewHandler(slotSvc, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	getSlotAvailability := getSlotAvailabilityHandler.NewHandler(getSlotAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	deleteReservation := deleteReservationHandler.NewHandler(deleteReservationUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/availability", getSlotAvailability.HandleForDate).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slotId}/availability", getSlotAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// CUSTOMER ROUTES (X-User-ID)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	createHandler := http.Handler(http.HandlerFunc(createReservation.Handle))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
		createHandler = limiter.Middleware(createHandler)
		log.Info("Rate limit for reservations: %.2f rps, burst=%d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	protected.Handle("/reservations", createHandler).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireAdmin)

	admin.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{id}", updateReservation.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/reservations/{id}", deleteReservation.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		close(stopMetricsCh)
		return err
	}

	log.Info("Shutting down server...")
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся писем, начатых до остановки
	if directDispatcher != nil {
		directDispatcher.Wait()
	}

	log.Info("Server stopped gracefully")
	return nil
}
