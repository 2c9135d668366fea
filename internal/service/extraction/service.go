package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/eureka/backend/internal/metrics"
	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

// Config controls the extraction pass.
type Config struct {
	Enabled bool
	Timeout time.Duration
}

// Service fills persona fields from recent conversation turns with a
// deterministic model call. Failures are logged and yield no values.
type Service struct {
	enabled  bool
	timeout  time.Duration
	chain    compose.Runnable[map[string]any, *schema.Message]
	registry *Registry
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewService compiles the extraction chain around chatModel. A nil model or a
// disabled config returns a Service that never extracts.
func NewService(ctx context.Context, chatModel model.BaseChatModel, cfg Config, logger *zap.Logger, m *metrics.Metrics) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := &Service{
		enabled:  cfg.Enabled && chatModel != nil,
		timeout:  cfg.Timeout,
		registry: DefaultRegistry(),
		logger:   logger,
		metrics:  m,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(extractorSystemPrompt),
		schema.UserMessage(extractorUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile extraction chain: %w", err)
	}

	svc.chain = runnable
	return svc, nil
}

// Enabled reports whether extraction will call the model.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.chain != nil
}

// Registry exposes the schema registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Extract returns values for p's fields stated in window. Only fields still
// missing in current are requested and returned.
func (s *Service) Extract(ctx context.Context, p persona.Persona, window []chat.Message, current *chat.Fields) map[string]*chat.Value {
	if !s.Enabled() || len(window) == 0 {
		return nil
	}

	tmpl := s.registry.For(p)
	if current != nil {
		missing := make(map[string]bool)
		for _, name := range current.Missing() {
			missing[name] = true
		}
		kept := tmpl.Hints[:0:0]
		for _, h := range tmpl.Hints {
			if missing[h.Field] {
				kept = append(kept, h)
			}
		}
		tmpl.Hints = kept
	}
	if len(tmpl.Hints) == 0 {
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	input := map[string]any{
		"schema":       tmpl.Render(),
		"conversation": formatConversation(window),
	}

	start := time.Now()
	msg, err := s.chain.Invoke(ctx, input, compose.WithChatModelOption(model.WithTemperature(0)))
	s.metrics.ObserveInference(metrics.PassExtraction, time.Since(start), err)
	if err != nil {
		s.logger.Warn("extraction call failed", zap.String("persona", p.ID), zap.Error(err))
		return nil
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil
	}

	values, err := parseOutput(msg.Content, tmpl.Names())
	if err != nil {
		s.logger.Warn("extraction output unparseable", zap.String("persona", p.ID), zap.Error(err))
		return nil
	}

	s.logger.Debug("extraction finished",
		zap.String("persona", p.ID),
		zap.Int("requested", len(tmpl.Hints)),
		zap.Int("extracted", len(values)))
	return values
}

func formatConversation(window []chat.Message) string {
	lines := make([]string, 0, len(window))
	for _, msg := range window {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		lines = append(lines, string(msg.Role)+": "+content)
	}
	return strings.Join(lines, "\n")
}

const extractorSystemPrompt = "You are a strict JSON data extractor. Extract only the fields mentioned in the conversation. Be conservative - only extract if clearly stated."

const extractorUserPrompt = "Extract the following fields from the conversation below. Return ONLY valid JSON with null for missing fields:\n\n{schema}\n\nConversation:\n{conversation}"
