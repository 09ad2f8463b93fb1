package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	orderreaderv1 "github.com/muhammadchandra19/matching-engine/internal/domain/order-reader/v1"
	"github.com/muhammadchandra19/matching-engine/pkg/logger"
)

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic       = flag.String("topic", "orders", "Kafka topic name")
		pair        = flag.String("pair", "BTC-USD", "Trading pair used as message key")
		file        = flag.String("file", "", "JSON file with commands (optional, generates commands if not provided)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending commands")
		count       = flag.Int("count", 1000, "Number of commands to generate")
		basePrice   = flag.String("base-price", "3945.5", "Base price for limit orders")
		priceSpread = flag.String("price-spread", "200", "Price spread range")
		marketRatio = flag.Float64("market-ratio", 0.2, "Share of market orders")
		cancelRatio = flag.Float64("cancel-ratio", 0.1, "Share of cancels")
		seed        = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	)
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// single partition keeps the command stream totally ordered
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	defer writer.Close()

	ctx := context.Background()

	var commands []orderreaderv1.PlaceOrderRequest
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "read_command_file"}, logger.Field{Key: "file", Value: *file})
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &commands); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "parse_command_file"})
			os.Exit(1)
		}
	} else {
		commands = generateCommands(generatorConfig{
			Count:       *count,
			BasePrice:   decimal.RequireFromString(*basePrice),
			PriceSpread: decimal.RequireFromString(*priceSpread),
			MarketRatio: *marketRatio,
			CancelRatio: *cancelRatio,
		}, rand.New(rand.NewPCG(*seed, *seed)))
	}

	log.Info("Sending commands",
		logger.Field{Key: "count", Value: len(commands)},
		logger.Field{Key: "brokers", Value: *brokers},
		logger.Field{Key: "topic", Value: *topic},
		logger.Field{Key: "delay", Value: delay.String()},
	)

	stats := map[orderreaderv1.OrderType]int{}
	for i, cmd := range commands {
		if err := cmd.Validate(); err != nil {
			log.Warn("Skipping invalid command", logger.Field{Key: "index", Value: i}, logger.Field{Key: "reason", Value: err.Error()})
			continue
		}

		value, err := json.Marshal(cmd)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "marshal_command"}, logger.Field{Key: "index", Value: i})
			continue
		}

		msg := kafka.Message{
			Key:   []byte(*pair),
			Value: value,
			Time:  time.Now(),
		}
		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "write_command"}, logger.Field{Key: "orderID", Value: cmd.OrderID})
			continue
		}
		stats[cmd.Type]++

		if (i+1)%100 == 0 || i == len(commands)-1 {
			log.Info("Progress",
				logger.Field{Key: "sent", Value: i + 1},
				logger.Field{Key: "total", Value: len(commands)},
				logger.Field{Key: "lastOrderID", Value: cmd.OrderID},
				logger.Field{Key: "lastType", Value: cmd.Type},
			)
		}

		if i < len(commands)-1 {
			time.Sleep(*delay)
		}
	}

	log.Info("Summary",
		logger.Field{Key: "limit", Value: stats[orderreaderv1.OrderTypeLimit]},
		logger.Field{Key: "market", Value: stats[orderreaderv1.OrderTypeMarket]},
		logger.Field{Key: "cancel", Value: stats[orderreaderv1.OrderTypeCancel]},
	)
}
