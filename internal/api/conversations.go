package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (d Dependencies) getConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cc, ok := d.Store.Get(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "not_found", "Conversation not found", d.Log)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cc)
}

func (d Dependencies) getConversationHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := int64(100)
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := d.History.ListConversation(id, limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items": events,
	})
}
