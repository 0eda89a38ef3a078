package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"syllabuscal/internal/config"
	"syllabuscal/internal/extract"
	appLog "syllabuscal/internal/log"
	"syllabuscal/internal/uploads"
	"syllabuscal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	debug      bool
}

func main() {
	appLog.Info("syllabuscal starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A missing extraction credential is the one configuration problem that
	// must fail immediately instead of degrading.
	extractor, err := extract.New(ctx, os.Getenv("GEMINI_API_KEY"), conf.Extractor.Model)
	if err != nil {
		appLog.Error("failed to initialize extractor", err)
		os.Exit(1)
	}

	store, err := uploads.NewStore(conf.UploadDir)
	if err != nil {
		appLog.Error("failed to initialize upload store", err, "dir", conf.UploadDir)
		os.Exit(1)
	}
	stopSweeper, err := store.StartSweeper(conf.SweepCron, time.Duration(conf.SweepMaxAgeHours)*time.Hour)
	if err != nil {
		appLog.Error("failed to start upload sweeper", err, "spec", conf.SweepCron)
		os.Exit(1)
	}
	defer stopSweeper()

	appLog.Info("effective config",
		"listen", conf.Listen,
		"school_timezone", conf.SchoolTimezone,
		"user_timezone", conf.UserTimezone,
		"model", conf.Extractor.Model,
		"upload_dir", conf.UploadDir,
		"sweep", conf.SweepCron,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := web.StartServer(ctx, conf, extractor, store); err != nil {
		appLog.Error("http server failed", err)
		os.Exit(1)
	}

	appLog.Info("syllabuscal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/syllabuscal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
