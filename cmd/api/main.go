package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/ligue-onboarding/internal/config"
	"github.com/xavierca1/ligue-onboarding/internal/infra/database"
	"github.com/xavierca1/ligue-onboarding/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-onboarding/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-onboarding/internal/infra/integration/stripe"
	"github.com/xavierca1/ligue-onboarding/internal/infra/logging"
	"github.com/xavierca1/ligue-onboarding/internal/infra/mail"
	"github.com/xavierca1/ligue-onboarding/internal/infra/queue"
	"github.com/xavierca1/ligue-onboarding/internal/infra/worker"
	"github.com/xavierca1/ligue-onboarding/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("info", "json")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	eventLogger := logging.NewEventLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbitmq unavailable")
	}
	defer rabbitMQ.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	clientRepo := database.NewClientRepository(db)

	// 2. Gateways e Adapters
	gateway := stripe.NewClient(cfg.Stripe.SecretKey)
	verifier := stripe.NewWebhookVerifier(cfg.Stripe.WebhookSecret)
	producer := queue.NewProducer(rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.PublicBaseURL)

	// 3. Workers (consumidor em canal próprio)
	consumerCh, err := rabbitMQ.Conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open consumer channel")
	}
	notificationWorker := queue.NewWorker(consumerCh, mailSender, logger)
	go func() {
		if err := notificationWorker.Start(ctx, queue.QueueName); err != nil {
			logger.Error().Err(err).Msg("notification worker stopped")
		}
	}()

	abandonedWorker := worker.NewAbandonedCheckoutWorker(leadRepo, producer, logger, cfg.AbandonedCheckoutAfter, cfg.AbandonedCheckoutInterval)
	go abandonedWorker.Start(ctx)

	// 4. UseCases
	validateEmailUC := usecase.NewValidateEmailUseCase(clientRepo, leadRepo, eventLogger)
	checkoutUC := usecase.NewStartCheckoutUseCase(validateEmailUC, gateway, leadRepo, eventLogger, usecase.CheckoutSettings{
		PriceID:        cfg.Stripe.PriceID,
		PublicBaseURL:  cfg.PublicBaseURL,
		BillingCountry: cfg.Stripe.BillingCountry,
	})
	webhookUC := usecase.NewProcessWebhookUseCase(leadRepo, producer, eventLogger)
	verifyUC := usecase.NewVerifyPaymentUseCase(clientRepo)
	captureLeadUC := usecase.NewCaptureLeadUseCase(leadRepo, eventLogger)

	// 5. Handlers
	h := routes{
		checkout:   handlers.NewCheckoutHandler(checkoutUC),
		webhook:    handlers.NewWebhookHandler(verifier, webhookUC),
		verify:     handlers.NewVerifyPaymentHandler(verifyUC),
		validation: handlers.NewValidationHandler(validateEmailUC),
		lead:       handlers.NewLeadHandler(captureLeadUC),
		health:     handlers.NewHealthHandler(db, rabbitMQ.Conn, cfg.Stripe.SecretKey != ""),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	go limiter.Cleanup(ctx.Done())

	// 6. Router
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(logger, h, limiter, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("onboarding api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
