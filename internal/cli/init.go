// Package cli provides the interactive ledger session and the
// initialization helpers used by cmd/ledger.
package cli

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"ledger/internal/amqp"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/services"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger at the given level and sets it
// as the slog default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewPublisher connects to AMQP when configured. A connection failure is
// logged and the ledger keeps working without notifications.
func NewPublisher(logger *log.Logger, cfg *config.Config) services.Publisher {
	if !cfg.AMQPEnabled() {
		return nil
	}
	client, err := amqp.NewClient(amqpOptions(cfg))
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without notifications",
			log.FieldError, err)
		return nil
	}
	logger.Info("Initialized AMQP client",
		log.FieldExchange, cfg.AMQPExchange,
		log.FieldQueue, cfg.AMQPQueue)
	return client
}

func amqpOptions(cfg *config.Config) amqp.Options {
	return amqp.Options{
		URL:            cfg.AMQPURL,
		Exchange:       cfg.AMQPExchange,
		Queue:          cfg.AMQPQueue,
		PublishTimeout: cfg.AMQPPublishTimeout,
	}
}

// CloseOnce returns a function closing c on its first call only, so the
// signal handler and the normal exit path can both run it.
func CloseOnce(logger *log.Logger, c io.Closer) func() {
	return sync.OnceFunc(func() {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close ledger", log.FieldError, err, log.FieldOperation, log.OpShutdown)
		}
	})
}

// ExitOnSignal runs cleanup and exits with status 130 on SIGINT or SIGTERM.
// Blocking reads from stdin cannot be cancelled, so the process ends here
// instead of unwinding the session.
func ExitOnSignal(logger *log.Logger, cleanup func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
		if cleanup != nil {
			cleanup()
		}
		os.Exit(130)
	}()
}
