// cmd/clothify/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/infrastructure/database/redis"
	"github.com/nishantmakwanaa/clothing-store/internal/infrastructure/storage"
	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/cli"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Logging)
	// Keep command output readable unless a level was asked for
	if os.Getenv("LOG_LEVEL") == "" {
		log.SetLevel(logrus.WarnLevel)
	}

	if len(args) == 0 {
		figure.NewFigure(cfg.App.Name, "cybermedium", true).Print()
		fmt.Println()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *goredis.Client
	if cfg.Client.StorageProvider == "redis" {
		rc, err := redis.NewConnection(ctx, cfg, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
			return 1
		}
		defer rc.Close()
		rdb = rc.GetClient()
	}

	store, err := storage.Open(cfg.Client, rdb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local storage: %v\n", err)
		return 1
	}

	app := cli.New(cfg, store, log, os.Stdout)
	if err := app.Run(ctx, args); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			log.WithError(err).Debug("command failed")
		}
		fmt.Fprintln(os.Stderr, cli.Message(err))
		return 1
	}
	return 0
}
