package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticket_reminder_service/internal/app"
	"ticket_reminder_service/internal/domain/reminder"
	"ticket_reminder_service/internal/infra/config"
	idb "ticket_reminder_service/internal/infra/database"
	"ticket_reminder_service/internal/infra/httpapi"
	"ticket_reminder_service/internal/infra/logger"
	inotify "ticket_reminder_service/internal/infra/notify"
	"ticket_reminder_service/internal/infra/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: could not load application configuration: %v", err)
	}

	mainLogger := logger.New(cfg)
	mainLogger.Infof("configuration loaded: environment=%s notifier=%s cron=%q",
		cfg.Environment, cfg.NotifierKind, cfg.ReminderCronSpec)

	// Database connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("database connection established")

	// Repositories
	ticketRepo := idb.NewPostgresTicketRepository(db)

	// Notifier adapter
	notifier, err := inotify.New(inotify.Config{
		Kind:          cfg.NotifierKind,
		WebhookURL:    cfg.WebhookURL,
		WebhookToken:  cfg.WebhookToken,
		TelegramToken: cfg.TelegramToken,
		ReplyTo:       cfg.EmailReplyTo,
	}, mainLogger)
	if err != nil {
		mainLogger.Fatalf("could not create notifier: %v", err)
	}
	mainLogger.Infof("notifier initialized: %s", cfg.NotifierKind)

	// Reminder engine
	reminderService := app.NewReminderService(ticketRepo, notifier, reminder.RealClock{}, mainLogger, app.Config{
		Cooldown:    cfg.ReminderCooldown,
		SendDelay:   cfg.SendDelay,
		SendTimeout: cfg.SendTimeout,
		FromName:    cfg.EmailFromName,
	})

	// Scheduler
	reminderScheduler := scheduler.NewReminderScheduler(reminderService, mainLogger, cfg.ReminderCronSpec)
	if err := reminderScheduler.Start(); err != nil {
		mainLogger.Fatalf("could not start reminder scheduler: %v", err)
	}

	// Admin HTTP API
	handler := httpapi.NewHandler(reminderScheduler, reminderService, mainLogger)
	server := &http.Server{
		Addr:    cfg.HTTPListenAddr,
		Handler: httpapi.NewRouter(handler),
	}
	go func() {
		mainLogger.Infof("admin API listening on %s", cfg.HTTPListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.Fatalf("admin API server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLogger.Errorf("admin API shutdown failed: %v", err)
	}
	reminderScheduler.Stop()
	mainLogger.Info("shut down gracefully")
}
