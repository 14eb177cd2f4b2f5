package main

import (
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-RepairService/internal/infra/queue"
	"github.com/m04kA/SMC-RepairService/internal/integrations/mailer"
	"github.com/m04kA/SMC-RepairService/internal/notification"
	"github.com/m04kA/SMC-RepairService/internal/worker"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Обработчик очереди уведомлений (asynq)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if !cfg.Queue.Enabled {
				return errors.New("queue is disabled in config, notifications are sent by serve directly")
			}

			sender := newEmailSender(app)

			mux := asynq.NewServeMux()
			worker.NewHandler(sender, app.log).Register(mux)

			srv := queue.NewServer(cfg.Queue, app.log)
			app.log.Info("Starting notification worker (redis=%s, concurrency=%d)", cfg.Queue.RedisAddr, cfg.Queue.Concurrency)

			// Run блокируется до SIGINT/SIGTERM и сам дожидается активных задач
			if err := srv.Run(mux); err != nil {
				app.log.Error("Worker stopped with error: %v", err)
				return err
			}

			app.log.Info("Worker stopped gracefully")
			return nil
		},
	}
}

func newEmailSender(a *App) *notification.EmailSender {
	client := mailer.NewClient(
		a.cfg.Mailer.URL,
		a.cfg.Mailer.APIKey,
		time.Duration(a.cfg.Mailer.Timeout)*time.Second,
		a.log,
	)
	a.log.Info("Mailer client initialized (url=%s, timeout=%ds)", a.cfg.Mailer.URL, a.cfg.Mailer.Timeout)
	return notification.NewEmailSender(client, a.cfg.Mailer.From)
}
