package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"habitTracker/internal/app"
	"habitTracker/internal/config"
	"habitTracker/internal/logger"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "путь к config.yml")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "загрузка конфигурации: %v\n", err)
		os.Exit(1)
	}

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		logger.Error("Ошибка инициализации приложения", err)
		logger.Sync()
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Приложение завершилось с ошибкой", err)
		os.Exit(1)
	}
}
