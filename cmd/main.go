package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/NicoGrassetto/nico-grassetto-blog/internal/config"
	"github.com/NicoGrassetto/nico-grassetto-blog/internal/site"
)

func main() {
	flags := pflag.NewFlagSet("blog", pflag.ExitOnError)
	flags.String("config", "", "config file (default ./blog.yaml)")
	flags.String("watch", "", "directory to watch for changes")
	flags.String("serve", "", "address to serve HTTP (localhost:8888)")
	flags.String("theme", "", "chart theme, light or dark")
	// bare --watch and --serve take these values
	flags.Lookup("watch").NoOptDefVal = "content"
	flags.Lookup("serve").NoOptDefVal = "localhost:8888"
	flags.Parse(os.Args[1:])

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	cfg, err := config.Load(flags)
	if err != nil {
		logger.Fatal("unable to load config", "err", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := site.New(cfg, logger)

	// no flags: single generation
	if cfg.Watch == "" && cfg.Serve == "" {
		if err := generate(gen, logger); err != nil {
			logger.Fatal("generation error", "err", err)
		}
		return
	}

	srv := newDevServer(cfg.PublicDir, cfg.Base, logger)

	// serve only
	if cfg.Watch == "" {
		if err := generate(gen, logger); err != nil {
			logger.Fatal("generation error", "err", err)
		}
		if err := srv.listen(ctx, cfg.Serve); err != nil {
			logger.Fatal("server error", "err", err)
		}
		return
	}

	// watch mode with optional serve
	if cfg.Serve != "" {
		go func() {
			if err := srv.listen(ctx, cfg.Serve); err != nil {
				logger.Error("server error", "err", err)
				stop()
			}
		}()
	}

	rebuild := func() {
		if err := generate(gen, logger); err != nil {
			logger.Error("generation error", "err", err)
			return
		}
		srv.broadcast("reload")
	}

	w, err := newWatcher(cfg.Watch, cfg.PublicDir, rebuild, logger)
	if err != nil {
		logger.Fatal("unable to init watcher", "err", err)
	}
	defer w.Close()

	logger.Info("watching", "dir", cfg.Watch)
	rebuild()
	if err := w.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("watch error", "err", err)
	}
}

func generate(gen *site.Generator, logger *log.Logger) error {
	logger.Info("generating...")
	start := time.Now()
	rep, err := gen.Build()
	if err != nil {
		return err
	}
	logger.Info("generated site",
		"files", rep.Files,
		"size", humanize.Bytes(uint64(rep.Bytes)),
		"warnings", len(rep.Warnings),
		"took", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
