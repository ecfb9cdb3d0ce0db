package logger

import (
	"log"
	"log/slog"
	"os"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the process logger for the given environment.
// Local runs log to stdout at debug level, dev and prod append to the
// given file, prod raises the level to info.
func SetupLogger(env, logPath string) *slog.Logger {
	var out *os.File

	if env == envLocal {
		out = os.Stdout
	} else {
		var err error
		out, err = os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("error opening log file: ", err)
		}
		log.Printf("env: %s; log file: %s", env, logPath)
	}

	level := slog.LevelDebug
	switch env {
	case envLocal, envDev:
	case envProd:
		level = slog.LevelInfo
	default:
		log.Fatal("invalid environment: ", env)
	}

	return slog.New(
		slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}),
	)
}
