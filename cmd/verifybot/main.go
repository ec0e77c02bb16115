package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iamwavecut/verifybot/internal/bot"
	"github.com/iamwavecut/verifybot/internal/config"
	"github.com/iamwavecut/verifybot/internal/db/sqlite"
	basic "github.com/iamwavecut/verifybot/internal/handlers/basic"
	verifypanel "github.com/iamwavecut/verifybot/internal/handlers/verifypanel"
	"github.com/iamwavecut/verifybot/internal/infra"
	"github.com/iamwavecut/verifybot/internal/lifecycle"
	"github.com/iamwavecut/verifybot/internal/observability"
	"github.com/iamwavecut/verifybot/internal/pending"
)

const (
	updatesBuffer  = 100
	updatesTimeout = 60
	stopTimeout    = 10 * time.Second
)

var errExecutableModified = errors.New("executable file was modified")

func main() {
	cfg, err := config.Load()
	log.SetFormatter(&config.NbFormatter{})
	log.SetOutput(os.Stdout)
	if err != nil {
		log.WithField("error", err.Error()).Fatalln("cant load config")
	}
	log.SetLevel(log.Level(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Info("no more updates")
	case errors.Is(err, errExecutableModified):
		log.Errorln(err)
	default:
		stop()
		log.WithField("error", err.Error()).Fatalln("verifybot stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	shutdownObservability, err := observability.Init(ctx)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	client, err := sqlite.NewSQLiteClient(ctx, cfg.DotPath, cfg.DBFile)
	if err != nil {
		_ = shutdownObservability(ctx)
		return fmt.Errorf("open database: %w", err)
	}

	pendingStore, err := pending.NewStore(ctx, cfg.Pending.RedisAddr, cfg.Pending.RedisPassword, cfg.Pending.RedisDB, cfg.Pending.TTL)
	if err != nil {
		log.WithField("error", err.Error()).Warn("redis is unavailable, keeping pending inputs in memory")
	}

	runtime := lifecycle.NewRuntime()
	runtime.Register("observability", lifecycle.Hooks{OnStop: shutdownObservability})
	runtime.Register("database", lifecycle.Closer(client.Close))
	if closer, ok := pendingStore.(io.Closer); ok {
		runtime.Register("pending", lifecycle.Closer(closer.Close))
	}

	botAPI, err := api.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		_ = runtime.Stop(ctx)
		return fmt.Errorf("init bot api: %w", err)
	}
	if log.Level(cfg.LogLevel) == log.TraceLevel {
		botAPI.Debug = true
	}

	service := bot.NewService(botAPI, client, cfg.Admins, cfg.DefaultLanguage)
	panel := verifypanel.NewVerifyPanel(service, pendingStore)
	runtime.Register("verify_panel", panel)

	updateProcessor := bot.NewUpdateProcessor(service)
	updateProcessor.RegisterUpdateHandler("verify_panel", panel)
	updateProcessor.RegisterUpdateHandler("basic", basic.NewBasic(service))
	updateProcessor.Enable(cfg.EnabledHandlers)

	if err := runtime.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := runtime.Stop(stopCtx); err != nil {
			log.WithField("error", err.Error()).Warn("shutdown finished with errors")
		}
	}()

	log.WithFields(log.Fields{
		"bot":      botAPI.Self.UserName,
		"admins":   len(cfg.Admins),
		"handlers": cfg.EnabledHandlers,
	}).Info("verifybot started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return infra.GoRecoverable(gctx, -1, "process_updates", func(ctx context.Context) error {
			return processUpdates(ctx, botAPI, updateProcessor)
		})
	})
	if cfg.Metrics.Listen != "" {
		g.Go(func() error {
			return observability.Serve(gctx, cfg.Metrics.Listen)
		})
	}
	g.Go(func() error {
		if _, modified := <-infra.MonitorExecutable(gctx); modified {
			return errExecutableModified
		}
		return nil
	})
	return g.Wait()
}

func processUpdates(ctx context.Context, source bot.UpdatesSource, processor *bot.UpdateProcessor) error {
	updateConfig := api.NewUpdate(0)
	updateConfig.Timeout = updatesTimeout
	updateChan, errorChan := bot.GetUpdatesChans(ctx, source, updatesBuffer, updateConfig)

	for {
		select {
		case err := <-errorChan:
			if err == nil {
				return ctx.Err()
			}
			return fmt.Errorf("bot api get updates: %w", err)
		case update, ok := <-updateChan:
			if !ok {
				return ctx.Err()
			}
			if err := processor.Process(ctx, &update); err != nil {
				log.WithField("error", err.Error()).Errorln("cant process update")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
