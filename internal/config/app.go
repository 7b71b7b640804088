package config

import (
	"go-bills-wallet/internal/handler"
	"go-bills-wallet/internal/middleware"
	"go-bills-wallet/internal/provider"
	"go-bills-wallet/internal/repository"
	"go-bills-wallet/internal/router"
	"go-bills-wallet/internal/usecase"
	"go-bills-wallet/pkg/hashing"
	"go-bills-wallet/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BootstrapConfig struct {
	DB       *gorm.DB
	Redis    *redis.Client
	App      *gin.Engine
	Log      *logrus.Logger
	Validate *validator.Validate
	Config   *Config
}

// Bootstrap wires the dependency graph and returns the reconciler so the
// caller controls its lifecycle alongside the HTTP server.
func Bootstrap(config *BootstrapConfig) *usecase.Reconciler {
	cfg := config.Config

	jwtManager := token.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.ExpirationTime)
	hasher := hashing.NewBcryptHasher()

	// setup provider clients
	peyflexClient := provider.NewPeyflexClient(cfg.Providers.PeyflexBaseURL, cfg.Providers.PeyflexToken, cfg.Providers.CallTimeout, config.Log)
	topupmateClient := provider.NewTopupmateClient(cfg.Providers.TopupmateBaseURL, cfg.Providers.TopupmateAPIKey, cfg.Providers.CallTimeout, config.Log)
	squadClient := provider.NewSquadClient(cfg.Providers.SquadBaseURL, cfg.Providers.SquadSecretKey, cfg.Providers.CallTimeout, config.Log)

	// setup repositories
	walletRepository := repository.NewWalletRepository(config.DB, config.Log)
	userRepository := repository.NewUserRepository(config.DB, config.Log)

	// setup use cases
	walletUseCase := usecase.NewWalletUsecase(walletRepository, config.Log, config.Redis, hasher)
	authUsecase := usecase.NewAuthUsecase(userRepository, config.Log, jwtManager, hasher)
	billUsecase := usecase.NewBillUsecase(walletRepository, walletUseCase, peyflexClient, topupmateClient, config.Log, cfg.Providers.CallTimeout)
	bankingUsecase := usecase.NewBankingUsecase(walletRepository, userRepository, walletUseCase, squadClient, config.Log)
	webhookUsecase := usecase.NewWebhookUsecase(walletRepository, walletUseCase, config.Log)

	// setup handlers
	authHandler := handler.NewAuthHandler(authUsecase, config.Log, config.Validate)
	walletHandler := handler.NewWalletHandler(walletUseCase, config.Log, config.Validate)
	billHandler := handler.NewBillHandler(billUsecase, config.Log, config.Validate)
	bankingHandler := handler.NewBankingHandler(bankingUsecase, config.Log)
	webhookHandler := handler.NewWebhookHandler(webhookUsecase, squadClient, config.Log)

	// setup middleware
	authMiddleware := middleware.NewAuthMiddleware(config.Log, jwtManager)

	routeConfig := router.RouteConfig{
		App:              config.App,
		AuthHandler:      authHandler,
		WalletHandler:    walletHandler,
		BillHandler:      billHandler,
		BankingHandler:   bankingHandler,
		WebhookHandler:   webhookHandler,
		AuthMiddleware:   authMiddleware,
		LoggerMiddleware: middleware.LoggerMiddleware(config.Log),
	}
	routeConfig.SetupRoute()

	return usecase.NewReconciler(walletRepository, config.Log, cfg.Reconciler.Interval, cfg.Reconciler.Threshold)
}
