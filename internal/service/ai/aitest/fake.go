// Package aitest provides a scripted chat model for tests.
package aitest

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Call is one recorded Generate invocation.
type Call struct {
	Messages    []*schema.Message
	Temperature *float32
}

// Responder produces the reply for a call.
type Responder func(ctx context.Context, call Call) (string, error)

// Model is a goroutine-safe fake model.BaseChatModel.
type Model struct {
	mu      sync.Mutex
	respond Responder
	calls   []Call
}

// NewModel returns a Model driven by respond.
func NewModel(respond Responder) *Model {
	return &Model{respond: respond}
}

// Reply returns a Model that always answers with text.
func Reply(text string) *Model {
	return NewModel(func(context.Context, Call) (string, error) { return text, nil })
}

func (m *Model) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)
	call := Call{Messages: input, Temperature: options.Temperature}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	respond := m.respond
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := respond(ctx, call)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(text, nil), nil
}

func (m *Model) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// Calls returns a copy of the recorded calls.
func (m *Model) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

var _ model.BaseChatModel = (*Model)(nil)
