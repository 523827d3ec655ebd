// Package handlers exposes the REST API of the money balancer.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/moneybalancer/internal/auth"
	"github.com/mmynk/moneybalancer/internal/metrics"
	"github.com/mmynk/moneybalancer/internal/middleware"
	"github.com/mmynk/moneybalancer/internal/service"
)

// NewRouter builds the gin engine with all routes wired up.
//
// The API layer is deliberately thin: it authenticates the caller, shapes
// JSON in and out, and maps the service error kinds to status codes. All
// ledger decisions live in the service layer.
func NewRouter(userHandler *UserHandler, groupHandler *GroupHandler, jwtManager *auth.JWTManager) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	api.POST("/user", userHandler.Register)
	api.POST("/auth/login", userHandler.Login)

	authed := api.Group("", middleware.RequireAuth(jwtManager))
	authed.GET("/user", userHandler.CurrentUser)

	group := authed.Group("/group")
	group.GET("", groupHandler.ListGroups)
	group.POST("", groupHandler.CreateGroup)
	group.GET("/:groupId", groupHandler.GetGroup)
	group.GET("/:groupId/member", groupHandler.ListMembers)
	group.POST("/:groupId/member", groupHandler.JoinGroup)
	group.GET("/:groupId/transaction", groupHandler.ListTransactions)
	group.POST("/:groupId/transaction", groupHandler.CreateTransaction)
	group.DELETE("/:groupId/transaction/:transactionId", groupHandler.DeleteTransaction)
	group.GET("/:groupId/debt", groupHandler.GetDebts)

	return router
}

// writeServiceError maps the service error kinds to transport responses.
// Unexpected errors stay opaque to the client.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrGroupNotFound.Error()})
	case errors.Is(err, service.ErrDebtorNotInGroup):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrDebtorNotInGroup.Error()})
	case errors.Is(err, service.ErrInvalidTransaction):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidTransaction.Error()})
	default:
		slog.Error("Internal error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
