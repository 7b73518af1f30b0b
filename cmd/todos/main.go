package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"

	"github.com/agalitsyn/todos/internal/app"
	"github.com/agalitsyn/todos/internal/model"
	"github.com/agalitsyn/todos/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := ParseFlags()
	setupLog(cfg.Log.Level)

	if cfg.NoColor {
		color.NoColor = true
	}

	if cfg.Debug {
		log.Printf("DEBUG running with config")
		fmt.Fprintln(os.Stdout, cfg.String())
	}

	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		log.Fatalf("ERROR could not open database: %s", err)
	}
	defer db.Close()

	repo := app.NewTodoRepository(sqlite.NewTodoStorage(db), nil)

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"list"}
	}

	if err := run(ctx, repo, args[0], args[1:]); err != nil {
		if errors.Is(err, model.ErrInvalidInput) || errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Printf("ERROR %s: %s", args[0], err)
		os.Exit(1)
	}
}

func setupLog(level string) {
	opts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	switch level {
	case "debug":
		opts = append(opts, lgr.Debug)
	case "trace":
		opts = append(opts, lgr.Trace)
	}
	lgr.SetupStdLogger(opts...)
}
