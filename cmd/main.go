package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantfold/tickstream/egress"
	"github.com/quantfold/tickstream/feed"
	"github.com/quantfold/tickstream/internal"
)

func main() {
	ctx, cancelCtx := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancelCtx()

	internal.InitTelemetry(ctx, "tickstream")
	defer internal.CloseTelemetry()

	feedCfg := feed.NewDefaultConfig()
	registry := feed.NewRegistry(feedCfg.WindowBound)

	feedStage := feed.NewStage(registry, feedCfg)

	egressCfg := egress.NewDefaultQuestDBConfig()
	egressStage := egress.NewQuestDB(registry, egressCfg)

	if err := feedStage.Init(ctx); err != nil {
		panic(err)
	}
	defer feedStage.Stop()

	if err := egressStage.Init(ctx); err != nil {
		panic(err)
	}
	defer egressStage.Stop()

	go feedStage.Run(ctx)
	go egressStage.Run(ctx)

	<-ctx.Done()
}
