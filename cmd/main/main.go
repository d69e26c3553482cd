package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"rocketshoes-cart/internal/app"
	"rocketshoes-cart/internal/cart"
	"rocketshoes-cart/internal/catalog"
	handlers "rocketshoes-cart/internal/handlers/cart"
	"rocketshoes-cart/internal/kafka"
	"rocketshoes-cart/internal/middleware"
	"rocketshoes-cart/internal/notify"
	"rocketshoes-cart/internal/storage"
)

const cfgPath = "config/config.yaml"

func main() {
	// init logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	logger := zapLogger.Sugar()
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			logger.Warnf("error to sync logger: %v", err)
		}
	}()

	// парсим конфиг
	c, err := app.NewConfig(cfgPath)
	if err != nil {
		logger.Fatalf("error to parsing config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// init storage
	var cartStorage storage.Storage
	switch c.Storage {
	case app.StoragePostgres:
		db, err := sql.Open("postgres", c.CfgDB.DSN())
		if err != nil {
			logger.Fatalf("error to database start: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(c.MaxOpenConns)
		if err := db.PingContext(ctx); err != nil {
			logger.Infof("Failed to get response to ping: %v", err)
		}
		cartStorage = storage.NewPostgresStorage(db, logger)
	default:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     c.CfgRedis.Addr,
			Password: c.CfgRedis.Password,
			DB:       c.CfgRedis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Infof("Failed to get response to redis ping: %v", err)
		}
		cartStorage = storage.NewRedisStorage(redisClient, logger)
	}

	// init catalog client
	catalogClient, err := catalog.NewHTTPClient(c.CfgCatalog.BaseURL, c.CfgCatalog.Timeout, logger)
	if err != nil {
		logger.Fatalf("error to init catalog client: %v", err)
	}

	// события корзины отправляем, только если настроена kafka
	var events kafka.EventProducer
	if len(c.CfgKafka.Brokers) > 0 {
		producer := kafka.NewProducer(c.CfgKafka.Brokers, c.CfgKafka.Topic, logger)
		defer producer.Close()
		events = producer
	}

	registry := cart.NewRegistry(cart.Deps{
		Catalog:      catalogClient,
		Storage:      cartStorage,
		Notifier:     notify.NewLogNotifier(logger),
		Events:       events,
		Logger:       logger,
		EnforceStock: c.CfgCatalog.EnforceStock,
	}, c.CfgCache.Size, c.CfgCache.TTL)

	// init router
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	cartHandlers := handlers.NewCartHandler(logger, registry)

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/cart", cartHandlers.Create).Methods("POST")

	// Ручки, требующие id корзины
	cartRouter := r.PathPrefix("/api/cart").Subrouter()
	cartRouter.Use(middleware.CartID(logger))

	cartRouter.HandleFunc("", cartHandlers.GetCart).Methods("GET")
	cartRouter.HandleFunc("/products/{id:[0-9]+}", cartHandlers.AddProduct).Methods("POST")
	cartRouter.HandleFunc("/products/{id:[0-9]+}", cartHandlers.UpdateProductAmount).Methods("PUT")
	cartRouter.HandleFunc("/products/{id:[0-9]+}", cartHandlers.RemoveProduct).Methods("DELETE")

	logger.Infow("starting server",
		"type", "START",
		"addr", c.ServerPort,
		"storage", c.Storage,
	)

	srv := &http.Server{
		Addr:         c.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("error to shutdown server: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("can't start server: %v", err)
	}
}
