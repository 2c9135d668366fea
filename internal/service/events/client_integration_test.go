//go:build integration

package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestIntegrationPublishCompleted(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}

	client, err := NewClient(context.Background(), url, os.Getenv("NATS_TOKEN"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	received := make(chan map[string]any, 1)
	sub, err := client.Subscribe(SubjectSessionCompleted, func(_ string, data []byte) {
		var msg map[string]any
		_ = json.Unmarshal(data, &msg)
		received <- msg
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	time.Sleep(100 * time.Millisecond)

	NewEmitter(client, zap.NewNop()).SessionCompleted(context.Background(), SessionCompleted{SessionID: "it-1"})

	select {
	case msg := <-received:
		if msg["session_id"] != "it-1" {
			t.Errorf("unexpected payload %v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
