// Package events publishes session lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
)

// Subjects.
const (
	SubjectSessionCompleted = "eureka.session.completed"
	SubjectSessionHandoff   = "eureka.session.handoff"
)

// SessionCompleted is emitted once, when a session's last field is filled.
type SessionCompleted struct {
	SessionID   string       `json:"session_id"`
	Persona     string       `json:"gpt_type"`
	Fields      *chat.Fields `json:"fields"`
	Turns       int          `json:"turns"`
	CompletedAt time.Time    `json:"completed_at"`
}

// SessionHandoff is emitted when a handoff creates a target session.
type SessionHandoff struct {
	Route           string       `json:"route"`
	SourceSessionID string       `json:"source_session_id"`
	TargetSessionID string       `json:"target_session_id"`
	TargetPersona   string       `json:"gpt_type"`
	Prefilled       *chat.Fields `json:"prefilled_fields"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Publisher sends a JSON payload on a subject. *Client satisfies it.
type Publisher interface {
	Publish(subject string, data any) error
}

// Emitter turns lifecycle events into publishes. Publish failures are logged
// and never reach the caller. A nil Emitter drops everything.
type Emitter struct {
	pub    Publisher
	logger *zap.Logger
}

// NewEmitter wraps pub.
func NewEmitter(pub Publisher, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{pub: pub, logger: logger}
}

func (e *Emitter) SessionCompleted(_ context.Context, evt SessionCompleted) {
	e.publish(SubjectSessionCompleted, evt, evt.SessionID)
}

func (e *Emitter) SessionHandoff(_ context.Context, evt SessionHandoff) {
	e.publish(SubjectSessionHandoff, evt, evt.TargetSessionID)
}

func (e *Emitter) publish(subject string, data any, sessionID string) {
	if e == nil || e.pub == nil {
		return
	}
	if err := e.pub.Publish(subject, data); err != nil {
		e.logger.Warn("event publish failed",
			zap.String("subject", subject),
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}
