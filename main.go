package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Akra-Ai42/crispy-umbrella/config"
	"github.com/Akra-Ai42/crispy-umbrella/controller"
	"github.com/Akra-Ai42/crispy-umbrella/dao"
	"github.com/Akra-Ai42/crispy-umbrella/logic"
	"github.com/Akra-Ai42/crispy-umbrella/middleware"
	"github.com/Akra-Ai42/crispy-umbrella/pkg"
)

const telegramRequestTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	setupLogger(cfg.LogLevel)

	// Initialize clients
	chatClient := pkg.NewChatClient(cfg.ModelAPIURL, cfg.ModelAPIKey, cfg.ModelName)
	telegramClient := pkg.NewTelegramClient(cfg.TelegramAPIBase, telegramRequestTimeout)

	// Initialize store and logic
	store := dao.NewMemoryStore()
	messageLogic := logic.NewMessageLogic(store, chatClient, telegramClient, cfg.MaxHistory)

	// Initialize controller
	webhookCtrl := controller.NewWebhookController(messageLogic)

	// Setup gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.POST("/webhook", webhookCtrl.Webhook)
	r.GET("/healthz", webhookCtrl.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register the public address as the update delivery target. Failure
	// means Telegram will never deliver, but the server still starts so
	// the registration can be retried out of band.
	if err := telegramClient.SetWebhook(cfg.WebhookURL()); err != nil {
		log.Error().Err(err).Str("url", cfg.WebhookURL()).Msg("failed to register webhook")
	} else {
		log.Info().Str("url", cfg.WebhookURL()).Msg("webhook registered")
	}

	log.Info().Int("port", cfg.Port).Str("model", cfg.ModelName).Msg("sophia relay starting")
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("service", "sophia").Logger()
}
