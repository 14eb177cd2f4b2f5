package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-RepairService/internal/config"
	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
	"github.com/m04kA/SMC-RepairService/pkg/txmanager"
)

// App общие зависимости подкоманд
type App struct {
	cfg *config.Config
	log *logger.Logger
}

var (
	configPath string
	app        = &App{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "repair-service",
		Short: "SMC-RepairService - запись на ремонт в сервисный центр",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.log != nil {
				app.log.Close()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "путь к TOML конфигурации")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(workerCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp загружает конфигурацию и поднимает логгер
func initApp() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.cfg = cfg
	app.log = log
	log.Info("Configuration loaded from %s", configPath)
	return nil
}

// openDB подключается к PostgreSQL и оборачивает соединение сбором метрик
// Если m == nil, метрики не пишутся
func (a *App) openDB(m *metrics.Metrics, stopCh <-chan struct{}) (*sql.DB, *dbmetrics.DB, error) {
	cfg := a.cfg.Database

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	a.log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	return db, dbmetrics.WrapWithDefault(db, m, cfg.DBName, stopCh), nil
}

// newTxManager менеджер транзакций с таймаутами из секции [booking]
func (a *App) newTxManager(db *dbmetrics.DB) *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(db,
		txmanager.WithTimeouts(a.cfg.Booking.AcquireTimeoutDuration(), a.cfg.Booking.ExecTimeoutDuration()),
		txmanager.WithSerializableRetries(a.cfg.Booking.SerializableRetries),
	)
}
