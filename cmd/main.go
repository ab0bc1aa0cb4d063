package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/auth"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/config"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/db"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/events"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/handlers"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/lock"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/logger"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/reconcile"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/services"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.Service(logger.New(cfg.Log.Level, cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// run wires every collaborator and serves until ctx is done. Every return
// path unwinds the deferred client shutdowns.
func run(ctx context.Context, cfg *config.Config, log *logrus.Entry) error {
	// Connect to MongoDB
	client, err := db.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.WithError(err).Error("Error disconnecting from MongoDB")
		}
	}()
	log.Info("Successfully connected to MongoDB")

	database := client.Database(cfg.Mongo.Database)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	// Initialize services
	userService := services.NewUserService(database)
	transactionService := services.NewTransactionService(database)
	paymentService := services.NewPaymentService(database)
	walletService := services.NewWalletService(database)

	var publisher events.Publisher = events.Noop{}
	if cfg.NSQ.NSQDAddr != "" {
		producer, err := events.NewNSQPublisher(cfg.NSQ.NSQDAddr, cfg.NSQ.Topic)
		if err != nil {
			return fmt.Errorf("connect to NSQ: %w", err)
		}
		defer producer.Stop()
		publisher = producer
		log.WithField("topic", cfg.NSQ.Topic).Info("Publishing reconciliation events to NSQ")
	}
	notificationService := services.NewNotificationService(database, publisher)

	checkoutService := services.NewCheckoutService(
		services.NewStripeGateway(cfg.Stripe.APIKey), transactionService, paymentService)

	// Reconciliation
	opts := []reconcile.Option{reconcile.WithNotifier(notificationService)}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}
		opts = append(opts, reconcile.WithLocker(lock.NewRedisLocker(rdb, cfg.Lock.TTL, cfg.Lock.Wait)))
	} else {
		log.Warn("REDIS_ADDR not set; webhook handlers run without a reference lock")
	}
	if cfg.Wallet.CreditOnCompletion {
		opts = append(opts, reconcile.WithLedgerHook(walletService))
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET not set; webhook requests will be rejected")
	}

	dispatcher := reconcile.NewDispatcher(log)
	reconcile.NewReconciler(transactionService, paymentService, log, opts...).Register(dispatcher)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	// Set up router
	router := handlers.NewRouter(handlers.Router{
		Users:         handlers.NewUserHandler(userService, tokens, log),
		Payments:      handlers.NewPaymentHandler(checkoutService, paymentService, transactionService, log),
		Wallets:       handlers.NewWalletHandler(walletService, log),
		Notifications: handlers.NewNotificationHandler(notificationService, log),
		Webhooks:      handlers.NewWebhookHandler(reconcile.NewStripeVerifier(cfg.Stripe.WebhookSecret), dispatcher, log),
		Tokens:        tokens,
		Ping: func(ctx context.Context) error {
			return db.Ping(ctx, client)
		},
		Log: log,
	})

	// Start server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Infof("Server running on port %s", cfg.App.Port)
	return serve(ctx, server, 15*time.Second)
}

// serve runs server until ctx is done or it fails to listen, then shuts it
// down within grace.
func serve(ctx context.Context, server *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
