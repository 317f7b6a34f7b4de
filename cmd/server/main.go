package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/fintszen/pkg/config"
	"github.com/yurifrl/fintszen/pkg/server"
	"github.com/yurifrl/fintszen/pkg/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "fintszen",
	})

	var (
		port    = flag.String("port", "3000", "Server port")
		cfgFile = flag.String("c", "", "Config file (default is "+config.DefaultPath()+")")
	)
	flag.Parse()

	cfg, err := config.Build(*cfgFile, nil)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", "err", err)
	}
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	srv := server.New(func(ctx context.Context) (*service.Service, error) {
		return service.Open(ctx, cfg, logger)
	}, logger)
	addr := fmt.Sprintf("0.0.0.0:%s", *port)
	logger.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
