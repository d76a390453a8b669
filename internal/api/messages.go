package api

import (
	"encoding/json"
	"net/http"

	"hera-assistant/internal/auth"
	"hera-assistant/internal/engine"
	"hera-assistant/internal/model"

	"github.com/oklog/ulid/v2"
)

type PostMessageRequest struct {
	Message        string             `json:"message"`
	ConversationID string             `json:"conversationId,omitempty"`
	Profile        *model.UserProfile `json:"profile,omitempty"`
}

func (d Dependencies) postMessage(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}
	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Message must not be empty", d.Log)
		return
	}

	if req.ConversationID == "" {
		req.ConversationID = ulid.Make().String()
	}

	resp := d.Engine.ProcessMessage(r.Context(), engine.ProcessInput{
		Message:        req.Message,
		ConversationID: req.ConversationID,
		Business:       businessContextFrom(r),
		Profile:        req.Profile,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"conversationId": req.ConversationID,
		"response":       resp,
	})
}

func businessContextFrom(r *http.Request) model.BusinessContext {
	ctx := r.Context()
	bctx := model.BusinessContext{
		OrganizationID: auth.GetOrgID(ctx),
		UserID:         auth.GetUserID(ctx),
		UserRole:       auth.GetRole(ctx),
	}
	if bctx.OrganizationID == "" {
		bctx.OrganizationID = "default"
	}
	if bctx.UserID == "" {
		bctx.UserID = "anonymous"
	}
	if bctx.UserRole == "" {
		bctx.UserRole = "user"
	}
	return bctx
}
