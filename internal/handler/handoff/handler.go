package handoff

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	chatService "github.com/zhouzirui/eureka/backend/internal/service/chat"
	"github.com/zhouzirui/eureka/backend/internal/service/handoff"
	"github.com/zhouzirui/eureka/backend/pkg/utils"
)

// Engine runs handoffs.
type Engine interface {
	Handoff(ctx context.Context, route, sourceID string) (chatService.HandoffResult, error)
}

// routeKeys names the request and response id keys each route uses.
var routeKeys = map[string]struct{ source, target string }{
	handoff.OfferToAvatar:  {"offer_session_id", "avatar_session_id"},
	handoff.AvatarToBefore: {"avatar_session_id", "before_session_id"},
	handoff.AvatarToAfter:  {"avatar_session_id", "after_session_id"},
}

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

// RegisterRoutes mounts POST /handoff/{route}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/handoff/{route}", h.handleHandoff)
}

func (h *Handler) handleHandoff(w http.ResponseWriter, r *http.Request) {
	route := chi.URLParam(r, "route")
	keys, known := routeKeys[route]
	if !known {
		utils.RespondError(w, http.StatusNotFound, (&handoff.MismatchError{Route: route}).Error())
		return
	}

	var payload map[string]any
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sourceID := stringField(payload, keys.source)
	if sourceID == "" {
		sourceID = stringField(payload, "session_id")
	}
	if sourceID == "" {
		utils.RespondError(w, http.StatusBadRequest, keys.source+" is required")
		return
	}

	result, err := h.engine.Handoff(r.Context(), route, sourceID)
	if err != nil {
		h.logger.Error("handoff failed", zap.String("route", route), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusOK
	if result.Error != "" {
		status = http.StatusUnprocessableEntity
		if result.SourceMissing {
			status = http.StatusNotFound
		}
	}

	prefilled := result.Prefilled
	if prefilled == nil {
		prefilled = chat.NewFields()
	}
	body := map[string]any{
		"session_id":       result.SessionID,
		keys.target:        result.SessionID,
		"gpt_type":         result.Persona,
		"greeting":         result.Greeting,
		"prefilled_fields": prefilled,
	}
	if result.Error != "" {
		body["error"] = result.Error
	}
	utils.RespondJSON(w, status, body)
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}
