package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"gtrends-go/internal/config"
	"gtrends-go/internal/handler"
	"gtrends-go/internal/service"
	"gtrends-go/pkg/logger"
	"gtrends-go/pkg/trends"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "", "Configuration file path (yaml); empty uses defaults and GTRENDS_* env")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	_ = godotenv.Load()

	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return err
	}
	if app.debug {
		cfg.Logger.Level = "debug"
	}
	l := logger.New(cfg.Logger)
	logger.SetLogger(l)

	client, err := trends.NewClient(cfg.Trends.Config)
	if err != nil {
		return fmt.Errorf("failed to create trends client: %w", err)
	}
	svc := service.New(client,
		service.WithChartOptions(cfg.Chart),
		service.WithDefaults(cfg.Trends.Country, trends.Resolution(cfg.Trends.Resolution)),
		service.WithHourlySleep(cfg.Trends.Sleep),
		service.WithLogger(l.WithField("component", "service")))

	server := handler.NewApp(handler.NewController(svc, l), handler.AppConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	serverErrors := make(chan error, 1)
	go func() {
		l.WithField("addr", addr).Info("HTTP server listening")
		serverErrors <- server.Listen(addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigChan:
		l.WithField("signal", sig.String()).Info("Shutting down gracefully")
	}

	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	l.Info("Server stopped")
	return nil
}
