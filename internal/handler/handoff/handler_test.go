package handoff

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
	chatService "github.com/zhouzirui/eureka/backend/internal/service/chat"
)

type stubExtractor struct{}

func (stubExtractor) Extract(context.Context, persona.Persona, []chat.Message, *chat.Fields) map[string]*chat.Value {
	return map[string]*chat.Value{
		"target_audience": chat.Text("New fitness coaches"),
		"problems_solved": chat.List("Churn"),
	}
}

type okCompleter struct{}

func (okCompleter) Complete(context.Context, []chat.Message, float32) (string, error) {
	return "noted", nil
}

func setup(t *testing.T) (*chi.Mux, *chatService.Service) {
	t.Helper()
	svc := chatService.NewService(persona.NewDefaultStore(),
		chatService.WithCompleter(okCompleter{}),
		chatService.WithExtractor(stubExtractor{}))
	r := chi.NewRouter()
	New(svc, nil).RegisterRoutes(r)
	return r, svc
}

func post(t *testing.T, r http.Handler, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
	return resp.Code, out
}

func TestOfferToAvatar(t *testing.T) {
	r, svc := setup(t)
	if _, err := svc.Advance(context.Background(), chatService.Request{SessionID: "offer", Message: "coaches with churn"}); err != nil {
		t.Fatal(err)
	}

	code, body := post(t, r, "/handoff/offer-to-avatar", `{"offer_session_id":"offer"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	if body["gpt_type"] != persona.AvatarCreator {
		t.Fatalf("unexpected gpt_type %v", body["gpt_type"])
	}
	if body["avatar_session_id"] == "" || body["avatar_session_id"] != body["session_id"] {
		t.Fatalf("avatar_session_id should mirror session_id: %v", body)
	}
	prefilled := body["prefilled_fields"].(map[string]any)
	if prefilled["customer_segment"] != "New fitness coaches" {
		t.Fatalf("unexpected prefill %v", prefilled)
	}
	if _, hasErr := body["error"]; hasErr {
		t.Fatalf("unexpected error key: %v", body)
	}
}

func TestHandoffErrors(t *testing.T) {
	r, svc := setup(t)
	created, err := svc.CreateSession(context.Background(), persona.OfferClarifier)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		errMsg string
	}{
		{"missing source", "/handoff/avatar-to-before", `{"avatar_session_id":"nope"}`, http.StatusNotFound, "Avatar session not found"},
		{"wrong persona", "/handoff/avatar-to-after", `{"session_id":"` + created.SessionID + `"}`, http.StatusUnprocessableEntity, "Source session is not an avatar_creator session"},
		{"unknown route", "/handoff/offer-to-trigger", `{"session_id":"x"}`, http.StatusNotFound, "Unsupported handoff route: offer-to-trigger"},
		{"no id", "/handoff/offer-to-avatar", `{}`, http.StatusBadRequest, "offer_session_id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := post(t, r, tt.path, tt.body)
			if code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, code)
			}
			if body["error"] != tt.errMsg {
				t.Fatalf("unexpected error %v", body["error"])
			}
		})
	}

	if n, _ := svc.Count(context.Background()); n != 1 {
		t.Fatalf("failed handoffs must not create sessions, have %d", n)
	}
}
