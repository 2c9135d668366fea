package socket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
	chatService "github.com/zhouzirui/eureka/backend/internal/service/chat"
)

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, transcript []chat.Message, _ float32) (string, error) {
	return "echo: " + transcript[len(transcript)-1].Content, nil
}

type frame struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	Data      json.RawMessage `json:"data"`
}

type slowCompleter struct {
	delay time.Duration
}

func (c slowCompleter) Complete(ctx context.Context, transcript []chat.Message, temperature float32) (string, error) {
	time.Sleep(c.delay)
	return echoCompleter{}.Complete(ctx, transcript, temperature)
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	svc := chatService.NewService(persona.NewDefaultStore(), chatService.WithCompleter(echoCompleter{}))
	return serve(t, New(svc, []string{"*"}, nil))
}

func serve(t *testing.T, h *Handler) *websocket.Conn {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if got := read(t, conn); got.Type != TypeConnected {
		t.Fatalf("expected connected frame, got %s", got.Type)
	}
	return conn
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func TestSelectChatReset(t *testing.T) {
	conn := dial(t)

	if err := conn.WriteJSON(map[string]string{"type": TypeSelect, "gpt_type": persona.AvatarCreator}); err != nil {
		t.Fatal(err)
	}
	selected := read(t, conn)
	if selected.Type != TypeSelected || selected.SessionID == "" {
		t.Fatalf("unexpected frame %+v", selected)
	}

	if err := conn.WriteJSON(map[string]string{"type": TypeChat, "session_id": selected.SessionID, "message": "hi there"}); err != nil {
		t.Fatal(err)
	}
	turnFrame := read(t, conn)
	if turnFrame.Type != TypeTurn {
		t.Fatalf("expected turn, got %s", turnFrame.Type)
	}
	var turn map[string]any
	if err := json.Unmarshal(turnFrame.Data, &turn); err != nil {
		t.Fatal(err)
	}
	if turn["reply"] != "echo: hi there" || turn["gpt_type"] != persona.AvatarCreator {
		t.Fatalf("unexpected turn %v", turn)
	}

	if err := conn.WriteJSON(map[string]string{"type": TypeReset, "session_id": selected.SessionID}); err != nil {
		t.Fatal(err)
	}
	if got := read(t, conn); got.Type != TypeResetDone || got.SessionID != selected.SessionID {
		t.Fatalf("unexpected frame %+v", got)
	}
}

func TestUnsupportedFrame(t *testing.T) {
	conn := dial(t)

	if err := conn.WriteJSON(map[string]string{"type": "audio"}); err != nil {
		t.Fatal(err)
	}
	got := read(t, conn)
	if got.Type != TypeError {
		t.Fatalf("expected error frame, got %s", got.Type)
	}
	if !strings.Contains(string(got.Data), "unsupported message type: audio") {
		t.Fatalf("unexpected error payload %s", got.Data)
	}

	if err := conn.WriteJSON(map[string]string{"type": TypeReset}); err != nil {
		t.Fatal(err)
	}
	if got := read(t, conn); got.Type != TypeError {
		t.Fatalf("expected error frame for reset without id, got %s", got.Type)
	}
}

func TestSlowTurnDoesNotExpireConnection(t *testing.T) {
	svc := chatService.NewService(persona.NewDefaultStore(),
		chatService.WithCompleter(slowCompleter{delay: 300 * time.Millisecond}))
	h := New(svc, []string{"*"}, nil)
	h.readTimeout = 200 * time.Millisecond
	conn := serve(t, h)

	for i, msg := range []string{"first", "second"} {
		if err := conn.WriteJSON(map[string]string{"type": TypeChat, "session_id": "slow", "message": msg}); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		if got := read(t, conn); got.Type != TypeTurn {
			t.Fatalf("turn %d: expected turn, got %s", i, got.Type)
		}
	}
}
