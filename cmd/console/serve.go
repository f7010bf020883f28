package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gateway-console/internal/infrastructure/config"
	"gateway-console/internal/infrastructure/container"
	"gateway-console/internal/infrastructure/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the console HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfigLoader(configFlag).Load()
		if err != nil {
			return err
		}

		logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configFlag, "config", "f", "", "YAML config file; environment only when empty")
	rootCmd.AddCommand(serveCmd)
}

// serve runs the console until ctx is cancelled, then drains in-flight
// requests for at most the configured shutdown timeout
func serve(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	appContainer, err := container.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create dependency injection container")
		return err
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			logger.WithError(err).Error("Failed to cleanup container")
		}
	}()

	appContainer.GetMetrics().SetConsoleInfo(version, string(appContainer.GetOSType()), appContainer.GetNetworkBackend())

	server := &http.Server{
		Addr:         net.JoinHostPort("", cfg.Server.Port),
		Handler:      appContainer.GetHandler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":            cfg.Server.Port,
			"os_type":         appContainer.GetOSType(),
			"network_backend": appContainer.GetNetworkBackend(),
			"firewall":        cfg.Firewall.Backend,
		}).Info("Gateway console started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("HTTP server failed")
		}
		return err
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shutdown HTTP server")
		return err
	}
	logger.Info("Gateway console stopped")
	return nil
}
