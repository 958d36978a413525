package main

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/johanthomias/HumDaddy-mobile/internal/app"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/config"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"

	_ "modernc.org/sqlite"
)

func buildLogger(format string) logging.Logger {
	if format == "text" {
		return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}
	return logging.NewZerologLogger(zerolog.New(os.Stderr).With().Timestamp().Logger())
}

func main() {
	cfg := config.LoadConfig()
	logger := buildLogger(cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	a.Start(ctx)

	// Deep links arrive from the OS as program arguments on relaunch; a
	// long-lived instance also accepts them on stdin, one URL per line.
	for _, arg := range os.Args[1:] {
		a.DeepLinks.Handle(ctx, arg)
	}
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			a.DeepLinks.Handle(ctx, scanner.Text())
		}
	}()

	<-ctx.Done()
}
