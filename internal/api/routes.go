package api

import (
	"net/http"
	"os"

	"hera-assistant/internal/auth"
	"hera-assistant/internal/conversation"
	"hera-assistant/internal/engine"
	"hera-assistant/internal/pubsub"
	"hera-assistant/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Dependencies struct {
	Engine  *engine.Engine
	Store   *conversation.Store
	History *pubsub.History
	Svc     *service.TransactionService
	Log     *zap.Logger
}

func Routes(d Dependencies) http.Handler {
	r := chi.NewRouter()

	// Add request logging middleware
	r.Use(RequestLogger(d.Log))

	// Add JWT authentication middleware (optional - allows anonymous access)
	jwtSecret := os.Getenv("JWT_SECRET")
	jwtConfig := auth.NewJWTConfig(jwtSecret)
	r.Use(jwtConfig.Middleware)

	// Message endpoint
	r.Post("/messages", d.postMessage)

	// Conversation endpoints
	r.Get("/conversations/{id}", d.getConversation)
	r.Get("/conversations/{id}/history", d.getConversationHistory)

	// Transaction endpoints
	r.Get("/transactions", d.listTransactions)
	r.Get("/transactions/{id}", d.getTransaction)

	// WebSocket endpoint
	r.Get("/ws", d.wsHandler)

	return r
}
