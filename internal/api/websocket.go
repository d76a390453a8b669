package api

import (
	"net/http"
	"os"

	"hera-assistant/internal/engine"
	"hera-assistant/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
}

type wsMessage struct {
	Message        string             `json:"message"`
	ConversationID string             `json:"conversationId,omitempty"`
	Profile        *model.UserProfile `json:"profile,omitempty"`
}

// wsHandler upgrades the connection and runs a chat loop: each incoming
// message is processed through the engine and the reply written back on
// the same connection.
func (d Dependencies) wsHandler(w http.ResponseWriter, r *http.Request) {
	bctx := wsBusinessContext(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.Log.Error("Failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	d.Log.Info("WebSocket connection established",
		zap.String("remote", r.RemoteAddr),
		zap.String("user_id", bctx.UserID),
	)

	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		conversationID = ulid.Make().String()
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				d.Log.Warn("WebSocket read failed", zap.Error(err))
			}
			return
		}
		if msg.Message == "" {
			continue
		}
		if msg.ConversationID != "" {
			conversationID = msg.ConversationID
		}

		resp := d.Engine.ProcessMessage(r.Context(), engine.ProcessInput{
			Message:        msg.Message,
			ConversationID: conversationID,
			Business:       bctx,
			Profile:        msg.Profile,
		})

		if err := conn.WriteJSON(map[string]interface{}{
			"conversationId": conversationID,
			"response":       resp,
		}); err != nil {
			d.Log.Warn("WebSocket write failed", zap.Error(err))
			return
		}
	}
}

// wsBusinessContext resolves the caller's identity. Browsers cannot set
// custom headers on WebSocket requests, so a JWT may also arrive as a
// query parameter.
func wsBusinessContext(r *http.Request) model.BusinessContext {
	bctx := businessContextFrom(r)

	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		return bctx
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return bctx
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if userID, ok := claims["sub"].(string); ok && userID != "" {
			bctx.UserID = userID
		}
		if orgID, ok := claims["org_id"].(string); ok && orgID != "" {
			bctx.OrganizationID = orgID
		}
		if role, ok := claims["role"].(string); ok && role != "" {
			bctx.UserRole = role
		}
	}
	return bctx
}
