package api

import (
	"aibot-api/internal/api/handlers"
	"aibot-api/internal/middleware"
	"aibot-api/internal/telegram"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// SetupRoutes wires the service HTTP surface: health, the webhook receiver,
// and the token-gated usage endpoint.
func SetupRoutes(db *gorm.DB, usageHandler *handlers.UsageHandler, botHandler telegram.Handler, adminToken string) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/health", handlers.HealthCheckHandler(db)).Methods("GET")

	webhookHandler := handlers.NewWebhookHandler(botHandler)
	router.HandleFunc("/webhook", webhookHandler.HandleUpdate).Methods("POST")

	adminRouter := router.PathPrefix("/api/v1").Subrouter()
	adminRouter.Use(middleware.AdminMiddleware(adminToken))
	adminRouter.HandleFunc("/usage/{userID}", usageHandler.GetUsage).Methods("GET")

	return router
}
