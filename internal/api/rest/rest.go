package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/chainledger/ledger-indexer/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Balance endpoints (public read access)
		v1.GET("/balances", handler.ListBalances)
		v1.GET("/streams/balance", handler.GetStreamBalance)

		// Event endpoints (public read access)
		v1.GET("/events", handler.ListEvents)

		// Reconciliation queue introspection (operational, requires authentication)
		v1.GET("/reconciliations/pending", middleware.Auth(authCfg), handler.ListPendingReconciliations)
	}
}
