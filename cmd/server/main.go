package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"facture/internal/config"
	"facture/internal/core"
	"facture/internal/database"
	"facture/internal/http-server/api"
	"facture/internal/mailer"
	"facture/internal/pdf"
	"facture/internal/storage"
	"facture/internal/tasks"
	"facture/lib/logger"
	"facture/lib/sl"
)

const (
	logFileName = "facture.log"

	taskWorkers   = 4
	taskQueueSize = 64
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))
	log.Info("starting facture", slog.String("config", *configPath), slog.String("env", conf.Env))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.New(ctx, conf)
	if err != nil {
		cancel()
		log.Error("database connection", sl.Err(err))
		os.Exit(1)
	}
	if err = db.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Error("database indexes", sl.Err(err))
		os.Exit(1)
	}
	cancel()

	store, err := storage.New(conf, log)
	if err != nil {
		log.Error("object storage", sl.Err(err))
		os.Exit(1)
	}

	renderer := pdf.New(conf, log)

	var mail core.Mailer
	if conf.Mail.ApiKey != "" {
		mail = mailer.New(conf, log)
	}

	pool := tasks.New(taskWorkers, taskQueueSize, log)

	handler := core.New(conf, db, store, renderer, mail, pool, log)

	server := api.New(conf, log, handler)
	go func() {
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", sl.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", sl.Err(err))
	}
	pool.Stop()
	renderer.Close()
	if err := db.Close(shutdownCtx); err != nil {
		log.Error("database close", sl.Err(err))
	}
	log.Info("stopped")
}
