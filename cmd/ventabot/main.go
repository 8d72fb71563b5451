package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pasofino/ventabot/bot/catalog"
	"github.com/pasofino/ventabot/bot/conversation"
	"github.com/pasofino/ventabot/bot/dialog"
	"github.com/pasofino/ventabot/bot/notify"
	"github.com/pasofino/ventabot/bot/orders"
	"github.com/pasofino/ventabot/bot/speech"
	"github.com/pasofino/ventabot/bot/telegrambot"
	"github.com/pasofino/ventabot/bot/vision"
	"github.com/pasofino/ventabot/bot/webhook"
	"github.com/pasofino/ventabot/core/bootstrap"
	coreconfig "github.com/pasofino/ventabot/core/config"
	"github.com/pasofino/ventabot/core/logger"
	coretelegram "github.com/pasofino/ventabot/core/telegram"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("ventabot: %v", err)
	}
}

func run() error {
	// .env is optional, real deployments use the environment directly
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	boot, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	if boot.DB != nil {
		defer boot.DB.Close()
	}

	store := conversation.NewMemoryStore()
	feed := catalog.NewFeedProvider(cfg.Catalog.FeedURL)

	var recorder orders.Recorder = orders.NewFeedRecorder(cfg.Orders.FeedURL)
	if boot.DB != nil {
		recorder = orders.NewJournalRecorder(recorder, boot.DB)
	}

	engine := dialog.New(
		store,
		feed,
		recorder,
		notify.NewMailer(cfg.Notify),
		speech.NewClient(cfg.Speech.URL, cfg.Speech.Token),
		vision.NewClient(cfg.Vision.URL),
		dialog.Config{
			CatalogPageURL: cfg.Catalog.PageURL,
			TrackingURL:    cfg.Orders.TrackingURL,
			ReturnsDesk:    cfg.Notify.ReturnsDesk,
			Operator:       cfg.Notify.Operator,
		},
	)

	svc := telegrambot.NewService(engine, feed, cfg)
	reg := coretelegram.NewRegistry()
	svc.Register(reg)

	runOpts := coretelegram.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      svc.Routes(),
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return nil
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := coretelegram.RunTelegram(ctx, runOpts); err != nil {
			errCh <- fmt.Errorf("telegram runtime: %w", err)
			cancel()
		}
	}()

	if cfg.Whatsapp.Enabled {
		srv := webhook.NewServer(engine)
		addr := fmt.Sprintf("%s:%d", cfg.Whatsapp.Listen, cfg.Whatsapp.Port)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(ctx, addr); err != nil {
				errCh <- fmt.Errorf("webhook runtime: %w", err)
				cancel()
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}
