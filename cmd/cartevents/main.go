package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"rocketshoes-cart/internal/app"
	"rocketshoes-cart/internal/kafka"
)

const cfgPath = "config/config.yaml"

// cartevents читает события корзин из kafka и пишет их в лог
func main() {
	// Init logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logger := zapLogger.Sugar()
	defer func() { _ = zapLogger.Sync() }()

	// Parse config
	c, err := app.NewConfig(cfgPath)
	if err != nil {
		logger.Fatalf("Error parsing config: %v", err)
	}
	if len(c.CfgKafka.Brokers) == 0 {
		logger.Fatal("kafka.brokers is empty, nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(c.CfgKafka.Brokers, c.CfgKafka.Topic, c.CfgKafka.GroupID, logger)
	defer consumer.Close()

	logger.Infow("consuming cart events", "topic", c.CfgKafka.Topic, "group", c.CfgKafka.GroupID)
	consumer.Consume(ctx, func(ctx context.Context, event kafka.Event) error {
		logger.Infow("cart event",
			"cart", event.CartID,
			"type", event.Type,
			"product", event.ProductID,
			"amount", event.Amount,
			"at", event.Timestamp,
		)
		return nil
	})
}
