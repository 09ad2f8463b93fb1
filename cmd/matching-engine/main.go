package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/muhammadchandra19/matching-engine/internal/app/engine"
	eventpublisher "github.com/muhammadchandra19/matching-engine/internal/usecase/event-publisher"
	"github.com/muhammadchandra19/matching-engine/internal/usecase/journal"
	orderreader "github.com/muhammadchandra19/matching-engine/internal/usecase/order-reader"
	"github.com/muhammadchandra19/matching-engine/internal/usecase/orderbook"
	"github.com/muhammadchandra19/matching-engine/internal/usecase/snapshot"
	"github.com/muhammadchandra19/matching-engine/pkg/config"
	"github.com/muhammadchandra19/matching-engine/pkg/logger"
	"github.com/muhammadchandra19/matching-engine/pkg/redis"
)

const shutdownTimeout = 30 * time.Second

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rclient := redis.NewClient(log, &cfg.Redis)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
		return
	}
	defer func() {
		if err := rclient.Disconnect(context.Background()); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
		}
	}()

	eventJournal, err := journal.Open(cfg.Journal.Dir, cfg.Pair, log)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "open_journal"})
		return
	}
	defer func() {
		if err := eventJournal.Close(); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "close_journal"})
		}
	}()

	publisher := eventpublisher.NewPublisher(cfg.EventPublisher, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "close_event_publisher"})
		}
	}()

	engine := app.NewEngineWithOptions(
		orderbook.NewOrderbook(cfg.Pair),
		orderreader.NewReader(cfg.Kafka, log),
		snapshot.NewSnapshotStore(rclient, cfg.Pair, log),
		eventJournal,
		publisher,
		log,
		app.OptionsFromConfig(cfg.Engine),
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_engine"})
		return
	}

	log.Info("Matching engine started", logger.Field{Key: "pair", Value: cfg.Pair})

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}

	log.Info("Matching engine shutdown complete",
		logger.Field{Key: "processedCommands", Value: engine.GetProcessedCommands()},
		logger.Field{Key: "totalMatches", Value: engine.GetTotalMatches()},
	)
}
