package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/avasilenko/snapdiary/internal/buildinfo"
	"github.com/avasilenko/snapdiary/internal/client/cli"
	"github.com/avasilenko/snapdiary/internal/client/config"
	"github.com/avasilenko/snapdiary/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
