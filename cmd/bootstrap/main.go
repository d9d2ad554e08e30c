package main

import (
	"context"
	"os"

	"github.com/aws/aws-xray-sdk-go/xray"

	adapterlogger "farmaid-portal/internal/adapters/logger"
	"farmaid-portal/internal/infrastructure/config"
	"farmaid-portal/internal/platform/server"
)

func main() {
	logger := adapterlogger.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(context.Background(), "configuration error, refusing to start", "error", err)
		os.Exit(1)
	}
	xray.Configure(xray.Config{LogLevel: "error"})

	e, err := server.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Error(context.Background(), "failed to build server", "error", err)
		os.Exit(1)
	}
	logger.Info(context.Background(), "starting http server", "port", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
