package router

import (
	"net/http"
	"time"

	"go-bills-wallet/internal/handler"
	"go-bills-wallet/internal/middleware"

	"github.com/gin-gonic/gin"
)

type RouteConfig struct {
	App              *gin.Engine
	AuthHandler      handler.AuthHandler
	WalletHandler    handler.WalletHandler
	BillHandler      handler.BillHandler
	BankingHandler   handler.BankingHandler
	WebhookHandler   handler.WebhookHandler
	AuthMiddleware   *middleware.AuthMiddleware
	LoggerMiddleware gin.HandlerFunc
}

func (c *RouteConfig) SetupRoute() {
	c.App.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "bills-wallet-api",
		})
	})

	c.App.Use(c.LoggerMiddleware)

	v1 := c.App.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", c.AuthHandler.Register)
			auth.POST("/login", c.AuthHandler.Login)
		}

		// Payment provider notifications (public, signature-verified)
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/squad", c.WebhookHandler.HandleSquadWebhook)
		}

		// Wallet routes
		wallets := v1.Group("/wallets")
		{
			wallets.Use(c.AuthMiddleware.JWTAuth())
			{
				wallets.GET("/", c.WalletHandler.GetWallet)
				wallets.GET("/balance", c.WalletHandler.GetBalance)
				wallets.GET("/transactions", c.WalletHandler.GetTransactionHistory)
				wallets.POST("/pin", c.WalletHandler.SetPin)
				wallets.PUT("/pin", c.WalletHandler.ChangePin)
				wallets.POST("/virtual-account", c.BankingHandler.ProvisionVirtualAccount)
			}
		}

		// Bill payment routes
		bills := v1.Group("/bills")
		{
			bills.Use(c.AuthMiddleware.JWTAuth())
			{
				bills.POST("/airtime", c.BillHandler.PurchaseAirtime)
				bills.POST("/data", c.BillHandler.PurchaseData)
				bills.POST("/electricity", c.BillHandler.PurchaseElectricity)
				bills.POST("/cable-tv", c.BillHandler.PurchaseCableTv)
				bills.POST("/exam-pin", c.BillHandler.PurchaseExamPin)
				bills.POST("/recharge-pin", c.BillHandler.PurchaseRechargePin)
				bills.POST("/data-pin", c.BillHandler.PurchaseDataPin)
				bills.POST("/verify/:kind", c.BillHandler.VerifyCustomer)

				bills.GET("/data/networks", c.BillHandler.GetDataNetworks)
				bills.GET("/data/plans", c.BillHandler.GetDataPlans)
				bills.GET("/cable-tv/providers", c.BillHandler.GetCableProviders)
				bills.GET("/cable-tv/plans", c.BillHandler.GetCablePlans)
				bills.GET("/electricity/providers", c.BillHandler.GetElectricityPlans)
				bills.GET("/pins/services", c.BillHandler.GetTopupmateServices)
			}
		}

		// Bank catalog
		banks := v1.Group("/banks")
		{
			banks.Use(c.AuthMiddleware.JWTAuth())
			{
				banks.GET("/", c.BankingHandler.GetBankList)
			}
		}
	}
}
