package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"seo-content-go/internal/app"
	"seo-content-go/internal/config"
	"seo-content-go/internal/handler"
)

type Application struct {
	configPath string
	envFile    string
	debug      bool
}

func main() {
	application := &Application{}

	flag.StringVar(&application.configPath, "config", "", "Configuration file path")
	flag.StringVar(&application.envFile, "env-file", ".env", "Dotenv file loaded before the environment")
	flag.BoolVar(&application.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := application.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (application *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.NewManager(config.WithEnvFile(application.envFile)).Load(application.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if application.debug {
		cfg.Logger.Level = "debug"
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	controller := handler.NewController(a.Pipeline, a.Metrics)
	server := controller.App(handler.ControllerConfig{
		BodyLimitMB:  cfg.Server.BodyLimitMB,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		a.Log.Info("Shutdown signal received")
		cancel()
	}()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	errChan := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", addr).Info("Server started")
		errChan <- server.Listen(addr)
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down gracefully")
	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.Log.WithField("at", time.Now().UTC().Format(time.RFC3339)).Info("Server stopped")
	return nil
}
