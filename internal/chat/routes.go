package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/intakeflow/intakeflow/internal/session"
)

// RegisterRoutes mounts the chat endpoints under /api/chat.
func RegisterRoutes(r chi.Router, p *Processor, sessions *session.Store) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/", handleMessage(p))
		r.Get("/ws", handleWebSocket(p))
		r.Get("/conversation/{id}", handleGetConversation(sessions))
		r.Delete("/conversation/{id}", handleDeleteConversation(sessions))
	})
}

func handleMessage(p *Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request

		// The caller always gets a coherent chat payload, even when the
		// pipeline fails in an unforeseen way.
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("chat: panic processing message: %v", rec)
				writeJSON(w, http.StatusInternalServerError, fallbackResponse(req.SessionID))
			}
		}()

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ClientID == "" {
			writeError(w, http.StatusBadRequest, "clientId is required")
			return
		}

		resp, err := p.Process(r.Context(), req)
		switch {
		case errors.Is(err, ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "message is required")
			return
		case errors.Is(err, ErrUnknownClient):
			writeError(w, http.StatusNotFound, "unknown client")
			return
		case err != nil:
			log.Printf("chat: processing message failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, fallbackResponse(req.SessionID))
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGetConversation(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		sess, err := sessions.Get(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading conversation failed")
			return
		}
		if sess == nil {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}

		writeJSON(w, http.StatusOK, sess)
	}
}

func handleDeleteConversation(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := sessions.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "deleting conversation failed")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
