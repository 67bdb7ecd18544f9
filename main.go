package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"scoutbot/app/client/tavily"
	"scoutbot/app/client/telegram"
	"scoutbot/app/config"
	"scoutbot/app/service/checkpoint"
	"scoutbot/app/service/engine"
	"scoutbot/app/service/pipeline"
	"scoutbot/app/service/queue"
	"scoutbot/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		var missingKeys *config.MissingKeysError
		if errors.As(err, &missingKeys) {
			slog.Error("The following required configuration keys are missing:")
			for _, key := range missingKeys.Keys {
				slog.Error("- " + key)
			}

			return
		}

		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, telegram.NewClient)
	do.Provide(di, tavily.NewClient)
	do.Provide(di, checkpoint.New)
	do.Provide(di, func(di *do.Injector) (pipeline.Store, error) {
		return do.MustInvoke[*checkpoint.Store](di), nil
	})
	do.Provide(di, queue.New)
	do.Provide(di, pipeline.New)
	do.Provide(di, engine.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*engine.Service](di).Run(appCtx)

	<-appCtx.Done()
}
