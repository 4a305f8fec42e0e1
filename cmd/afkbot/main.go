package main

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/EgorLis/mcafkbot/internal/bot"
	"github.com/EgorLis/mcafkbot/internal/config"
	"github.com/EgorLis/mcafkbot/internal/logging"
)

func main() {
	lc := config.LoadLog()
	log := logging.New(os.Stdout, lc.Level, lc.NoColor)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	b := bot.New(cfg, bot.WithLogger(log))
	if err := b.Start(); err != nil {
		log.Fatal().Err(err).Msg("start supervisor")
	}
	defer b.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM, unix.SIGHUP)
	defer stop()

	log.Info().Msg("running, press Ctrl+C to stop")

	<-ctx.Done()
	log.Info().Msg("shutting down")
}
