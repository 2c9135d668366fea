package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/eureka/backend/internal/config"
	"github.com/zhouzirui/eureka/backend/internal/metrics"
	"github.com/zhouzirui/eureka/backend/internal/model/chat"
)

var (
	// ErrUnavailable is returned when no chat model is configured.
	ErrUnavailable = errors.New("ai: chat model unavailable")
	// ErrEmptyCompletion is returned when the model answers with no content.
	ErrEmptyCompletion = errors.New("ai: empty completion")
)

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger used for inference diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records inference latency and failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTimeout bounds every completion call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// Service runs conversational completions against a chat model.
type Service struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewService builds the configured Ark model and wraps it.
func NewService(ctx context.Context, cfg config.AIConfig, opts ...Option) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	return NewServiceWithModel(chatModel, opts...), nil
}

// NewServiceWithModel wraps an existing model. A nil model yields a Service
// whose calls fail with ErrUnavailable.
func NewServiceWithModel(chatModel model.BaseChatModel, opts ...Option) *Service {
	s := &Service{
		chatModel: chatModel,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChatModel returns the underlying model so other passes can share it.
func (s *Service) ChatModel() model.BaseChatModel {
	if s == nil {
		return nil
	}
	return s.chatModel
}

// Complete sends the whole transcript to the model and returns the reply text.
func (s *Service) Complete(ctx context.Context, transcript []chat.Message, temperature float32) (string, error) {
	if s == nil || s.chatModel == nil {
		return "", ErrUnavailable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.chatModel.Generate(ctx, ToSchema(transcript), model.WithTemperature(temperature))
	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = ErrEmptyCompletion
	}
	s.metrics.ObserveInference(metrics.PassChat, time.Since(start), err)
	if err != nil {
		s.logger.Warn("chat completion failed",
			zap.Int("messages", len(transcript)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	s.logger.Debug("chat completion generated",
		zap.Int("messages", len(transcript)),
		zap.Int("length", len(resp.Content)))
	return resp.Content, nil
}

// ToSchema converts transcript entries into model messages.
func ToSchema(transcript []chat.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(transcript))
	for _, msg := range transcript {
		switch msg.Role {
		case chat.RoleSystem:
			out = append(out, schema.SystemMessage(msg.Content))
		case chat.RoleAssistant:
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		default:
			out = append(out, schema.UserMessage(msg.Content))
		}
	}
	return out
}
