package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatService "github.com/zhouzirui/eureka/backend/internal/service/chat"
	"github.com/zhouzirui/eureka/backend/pkg/utils"
)

// Engine is the part of the session engine the HTTP layer drives.
type Engine interface {
	CreateSession(ctx context.Context, personaID string) (chatService.Created, error)
	Advance(ctx context.Context, req chatService.Request) (chatService.Turn, error)
	Reset(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Snapshot(ctx context.Context, id string) (chatService.Snapshot, error)
	CombinedSummary(ctx context.Context, ids []string) (chatService.Summary, error)
}

// Handler serves the session endpoints.
type Handler struct {
	engine Engine
	logger *zap.Logger
}

func New(engine Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, logger: logger}
}

// RegisterRoutes mounts the session routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/select-gpt", h.handleSelect)
	r.Post("/chat", h.handleChat)
	r.Post("/reset", h.handleReset)
	r.Post("/combined-summary", h.handleCombinedSummary)
	r.Get("/health", h.handleHealth)
	r.Get("/sessions/{sessionID}", h.handleSnapshot)
}

type selectRequest struct {
	Persona string `json:"gpt_type"`
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	var payload selectRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.engine.CreateSession(r.Context(), payload.Persona)
	if err != nil {
		h.internalError(w, "select persona", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, created)
}

type chatRequest struct {
	SessionID string  `json:"session_id"`
	Message   *string `json:"message"`
	Persona   string  `json:"gpt_type"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == nil {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	turn, err := h.engine.Advance(r.Context(), chatService.Request{
		SessionID: payload.SessionID,
		Persona:   payload.Persona,
		Message:   *payload.Message,
	})
	if err != nil {
		h.internalError(w, "advance session", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, turn)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadBody(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, ok := decodeSessionID(body)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.engine.Reset(r.Context(), id); err != nil {
		h.internalError(w, "reset session", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset", "session_id": id})
}

// decodeSessionID accepts a bare JSON string or {"session_id": "..."}.
func decodeSessionID(body []byte) (string, bool) {
	var id string
	if err := json.Unmarshal(body, &id); err == nil {
		return id, id != ""
	}
	var wrapped struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return wrapped.SessionID, wrapped.SessionID != ""
	}
	return "", false
}

func (h *Handler) handleCombinedSummary(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadBody(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ids, ok := decodeSessionIDs(body)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "session_ids must be a list of strings")
		return
	}

	summary, err := h.engine.CombinedSummary(r.Context(), ids)
	if errors.Is(err, chatService.ErrNoSessions) {
		utils.RespondError(w, http.StatusNotFound, "No valid sessions found")
		return
	}
	if err != nil {
		h.internalError(w, "combined summary", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}

// decodeSessionIDs accepts a bare JSON list or {"session_ids": [...]}.
func decodeSessionIDs(body []byte) ([]string, bool) {
	var ids []string
	if err := json.Unmarshal(body, &ids); err == nil {
		return ids, true
	}
	var wrapped struct {
		SessionIDs []string `json:"session_ids"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.SessionIDs != nil {
		return wrapped.SessionIDs, true
	}
	return nil, false
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.Count(r.Context())
	if err != nil {
		h.internalError(w, "count sessions", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"status": "healthy", "sessions": n})
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	snap, err := h.engine.Snapshot(r.Context(), id)
	if errors.Is(err, chatService.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		h.internalError(w, "snapshot session", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op+" failed", zap.Error(err))
	utils.RespondError(w, http.StatusInternalServerError, "internal error")
}
