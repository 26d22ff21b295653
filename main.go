package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hirewise/config"
	"hirewise/cron"
	"hirewise/handlers"
	"hirewise/middleware"
	"hirewise/routes"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hirewise",
		Short:         "Provider engagement and reliability service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			utils.InitializeLogger()
		},
	}
	root.AddCommand(newServeCommand(), newScoresCommand())
	return root
}

func newServeCommand() *cobra.Command {
	var noWorker bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, background worker and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), !noWorker)
		},
	}
	cmd.Flags().BoolVar(&noWorker, "no-worker", false, "serve HTTP only; scores refresh inline on admin calls")
	return cmd
}

func serve(parent context.Context, withWorker bool) error {
	logger := utils.GetLogger()
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	utils.StartHealthMonitor(ctx, a.cache, a.mongo)

	var queue handlers.ScoreTaskQueue
	if withWorker {
		worker := cron.NewWorker(a.scores, a.quotes, logger)
		srv := worker.Start(ctx)
		defer srv.Shutdown()

		scheduler, err := cron.StartScheduler(logger)
		if err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		defer scheduler.Shutdown()

		dispatcher := cron.NewDispatcher(logger)
		defer dispatcher.Close()
		queue = dispatcher
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	hb := handlers.NewHandlerBundle(
		handlers.NewProviderHandler(a.providers, a.scores, a.reviews),
		handlers.NewBookingHandler(a.bookings),
		handlers.NewServiceRequestHandler(a.requests, a.reviews),
		handlers.NewQuoteHandler(a.quotes),
		handlers.NewNotificationHandler(a.notifications),
		handlers.NewAdminHandler(a.bookings, a.scores, queue),
		config.AppConfig.AdminTokenHash,
	)
	routes.RegisterRoutes(router, hb)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + config.AppConfig.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}
	logger.Info("server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.notifications.Wait()
	logger.Info("server stopped gracefully")
	return nil
}
