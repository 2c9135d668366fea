package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/eureka/backend/internal/analysis/intent"
	"github.com/zhouzirui/eureka/backend/internal/metrics"
	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
	"github.com/zhouzirui/eureka/backend/internal/service/events"
	"github.com/zhouzirui/eureka/backend/internal/service/handoff"
	"github.com/zhouzirui/eureka/backend/internal/service/report"
)

var ErrNoSessions = errors.New("no valid sessions found")

const (
	DefaultWindow      = 6
	DefaultTemperature = float32(0.8)

	apologyReply  = "Sorry, I ran into a problem generating a reply. Please try again."
	allCoveredMsg = "Great! We've covered all the key areas. Would you like me to generate a summary report?"
)

// Completer produces the persona's next conversational reply.
type Completer interface {
	Complete(ctx context.Context, transcript []chat.Message, temperature float32) (string, error)
}

// Extractor pulls field values out of recent turns. It never fails loudly.
type Extractor interface {
	Extract(ctx context.Context, p persona.Persona, window []chat.Message, current *chat.Fields) map[string]*chat.Value
}

// Classifier routes a user message.
type Classifier interface {
	Classify(message string) intent.Kind
}

// Renderer builds completion reports.
type Renderer interface {
	Render(p persona.Persona, fields *chat.Fields) string
	Combined(entries []report.Entry) string
}

// Notifier receives lifecycle events.
type Notifier interface {
	SessionCompleted(ctx context.Context, evt events.SessionCompleted)
	SessionHandoff(ctx context.Context, evt events.SessionHandoff)
}

// Created is returned when a session is opened.
type Created struct {
	SessionID string `json:"session_id"`
	Persona   string `json:"gpt_type"`
	Greeting  string `json:"greeting"`
}

// Request is one user turn.
type Request struct {
	SessionID string
	Persona   string
	Message   string
}

// Turn is the engine's answer to a Request.
type Turn struct {
	SessionID string       `json:"session_id"`
	Reply     string       `json:"reply"`
	Fields    *chat.Fields `json:"fields"`
	Persona   string       `json:"gpt_type"`
	Complete  bool         `json:"is_complete"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	SessionID string       `json:"session_id"`
	Persona   string       `json:"gpt_type"`
	Fields    *chat.Fields `json:"fields"`
	Complete  bool         `json:"is_complete"`
	Turns     int          `json:"turns"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SessionData is one session included in a combined summary.
type SessionData struct {
	SessionID string       `json:"session_id"`
	Persona   string       `json:"gpt_type"`
	Fields    *chat.Fields `json:"fields"`
}

// Summary is the combined multi-session report.
type Summary struct {
	Report   string        `json:"combined_report"`
	Sessions []SessionData `json:"sessions_data"`
}

// HandoffResult describes the session created by a handoff, or why none was.
type HandoffResult struct {
	SessionID string       `json:"session_id"`
	Persona   string       `json:"gpt_type"`
	Greeting  string       `json:"greeting"`
	Prefilled *chat.Fields `json:"prefilled_fields"`
	Error     string       `json:"error,omitempty"`

	// SourceMissing is set when the source session does not exist.
	SourceMissing bool `json:"-"`
}

// Option customises a Service.
type Option func(*Service)

func WithStore(store Store) Option { return func(s *Service) { s.store = store } }
func WithCompleter(c Completer) Option { return func(s *Service) { s.completer = c } }
func WithExtractor(e Extractor) Option { return func(s *Service) { s.extractor = e } }
func WithClassifier(c Classifier) Option { return func(s *Service) { s.classifier = c } }
func WithRenderer(r Renderer) Option { return func(s *Service) { s.renderer = r } }
func WithHandoffs(m *handoff.Matrix) Option { return func(s *Service) { s.handoffs = m } }
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWindow sets how many trailing transcript entries extraction sees.
func WithWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithTemperature sets the conversational sampling temperature.
func WithTemperature(t float32) Option {
	return func(s *Service) { s.temperature = t }
}

// Service is the session engine: it owns the registry and runs each turn.
type Service struct {
	personas    persona.Store
	store       Store
	completer   Completer
	extractor   Extractor
	classifier  Classifier
	renderer    Renderer
	handoffs    *handoff.Matrix
	notifier    Notifier
	metrics     *metrics.Metrics
	logger      *zap.Logger
	window      int
	temperature float32
	now         func() time.Time
	newID       func() string
	locks       *keyedMutex
}

// NewService builds the engine. Without a completer every inference-backed
// turn answers with an apology; without an extractor fields only change
// through handoffs.
func NewService(personas persona.Store, opts ...Option) *Service {
	s := &Service{
		personas:    personas,
		store:       NewMemoryStore(),
		classifier:  intent.NewClassifier(),
		renderer:    report.NewRenderer(),
		handoffs:    handoff.Default(),
		logger:      zap.NewNop(),
		window:      DefaultWindow,
		temperature: DefaultTemperature,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		locks:       newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) open(id string, p persona.Persona) *chat.Session {
	session := chat.NewSession(id, p.ID, p.Instruction, p.FieldNames(), s.now())
	s.metrics.SessionCreated(p.ID)
	s.logger.Info("session created", zap.String("session_id", id), zap.String("persona", p.ID))
	return session
}

// CreateSession opens a fresh session. Unknown personas resolve to the default.
func (s *Service) CreateSession(ctx context.Context, personaID string) (Created, error) {
	p := s.personas.Resolve(personaID)
	session := s.open(s.newID(), p)
	if err := s.store.Put(ctx, session); err != nil {
		return Created{}, fmt.Errorf("store session: %w", err)
	}
	return Created{SessionID: session.ID, Persona: p.ID, Greeting: p.Greeting}, nil
}

// Advance runs one user turn. Unknown session ids are created on the fly,
// keeping the caller's id. Errors are only returned for store failures.
func (s *Service) Advance(ctx context.Context, req Request) (Turn, error) {
	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		id = s.newID()
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		session = s.open(id, s.personas.Resolve(req.Persona))
	case err != nil:
		return Turn{}, fmt.Errorf("load session: %w", err)
	}
	p := s.personas.Resolve(session.Persona)

	message := strings.TrimSpace(req.Message)
	session.Append(chat.RoleUser, message, s.now())
	session.Turns++
	wasComplete := session.Complete()

	kind := s.classifier.Classify(message)
	s.metrics.Turn(p.ID, string(kind))
	logger := s.logger.With(zap.String("session_id", id), zap.String("persona", p.ID))
	logger.Debug("turn classified", zap.String("intent", string(kind)))

	var (
		reply    string
		complete bool
	)
	switch kind {
	case intent.Summary:
		reply = s.progressReport(p, session)
		complete = session.Complete()
	case intent.Proceed:
		reply, complete = s.proceed(ctx, logger, p, session)
	default:
		reply, complete = s.converse(ctx, logger, p, session)
	}

	session.UpdatedAt = s.now()
	if err := s.store.Put(ctx, session); err != nil {
		return Turn{}, fmt.Errorf("store session: %w", err)
	}

	if !wasComplete && session.Complete() {
		s.metrics.SessionCompleted(p.ID)
		logger.Info("session completed", zap.Int("turns", session.Turns))
		if s.notifier != nil {
			s.notifier.SessionCompleted(ctx, events.SessionCompleted{
				SessionID:   id,
				Persona:     p.ID,
				Fields:      session.Fields.Clone(),
				Turns:       session.Turns,
				CompletedAt: session.UpdatedAt,
			})
		}
	}

	return Turn{
		SessionID: id,
		Reply:     reply,
		Fields:    session.Fields.Clone(),
		Persona:   p.ID,
		Complete:  complete,
	}, nil
}

// progressReport answers a summary request without calling the model.
func (s *Service) progressReport(p persona.Persona, session *chat.Session) string {
	if session.Complete() {
		return s.renderer.Render(p, session.Fields)
	}
	filled := session.Fields.Only(session.Fields.Filled())
	return fmt.Sprintf("Here's what we have so far:\n\n%s\n\nWe still need to cover: %s\n\nWould you like to continue with the remaining questions?",
		filled.Indent(), strings.Join(session.Fields.Missing(), ", "))
}

// proceed steers the model to the next open question.
func (s *Service) proceed(ctx context.Context, logger *zap.Logger, p persona.Persona, session *chat.Session) (string, bool) {
	missing := session.Fields.Missing()
	if len(missing) == 0 {
		return allCoveredMsg, true
	}

	note := fmt.Sprintf("User wants to proceed. Missing fields: %s. Ask the next logical question naturally.", strings.Join(missing, ", "))
	transcript := append(session.History(), chat.Message{Role: chat.RoleSystem, Content: note, CreatedAt: s.now()})

	reply, err := s.complete(ctx, transcript)
	if err != nil {
		logger.Warn("proceed turn failed", zap.Error(err))
		return apologyReply, false
	}

	session.Append(chat.RoleSystem, note, s.now())
	session.Append(chat.RoleAssistant, reply, s.now())
	return s.finish(p, session, reply)
}

// converse runs the normal path: reply, then extract.
func (s *Service) converse(ctx context.Context, logger *zap.Logger, p persona.Persona, session *chat.Session) (string, bool) {
	reply, err := s.complete(ctx, session.History())
	if err != nil {
		logger.Warn("chat turn failed", zap.Error(err))
		return apologyReply, false
	}
	session.Append(chat.RoleAssistant, reply, s.now())

	if s.extractor != nil && !session.Complete() {
		values := s.extractor.Extract(ctx, p, session.Window(s.window), session.Fields)
		if filled := session.Fields.Merge(values); len(filled) > 0 {
			s.metrics.FieldsFilled(p.ID, len(filled))
			logger.Debug("fields filled", zap.Strings("fields", filled))
		}
	}
	return s.finish(p, session, reply)
}

func (s *Service) finish(p persona.Persona, session *chat.Session, reply string) (string, bool) {
	if session.Complete() {
		return s.renderer.Render(p, session.Fields), true
	}
	return reply, false
}

func (s *Service) complete(ctx context.Context, transcript []chat.Message) (string, error) {
	if s.completer == nil {
		return "", errors.New("no completer configured")
	}
	return s.completer.Complete(ctx, transcript, s.temperature)
}

// Reset removes a session. Unknown ids succeed.
func (s *Service) Reset(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted {
		s.metrics.SessionRemoved("")
		s.logger.Info("session reset", zap.String("session_id", id))
	}
	return nil
}

// Count reports the number of live sessions.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Snapshot returns a read-only view of one session.
func (s *Service) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		SessionID: session.ID,
		Persona:   session.Persona,
		Fields:    session.Fields,
		Complete:  session.Complete(),
		Turns:     session.Turns,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}, nil
}

// CombinedSummary renders every known session in ids, in order. Unknown and
// repeated ids are skipped.
func (s *Service) CombinedSummary(ctx context.Context, ids []string) (Summary, error) {
	seen := make(map[string]bool, len(ids))
	var (
		entries []report.Entry
		data    []SessionData
	)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		session, err := s.store.Get(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return Summary{}, fmt.Errorf("load session %s: %w", id, err)
		}
		entries = append(entries, report.Entry{
			SessionID: session.ID,
			Persona:   s.personas.Resolve(session.Persona),
			Fields:    session.Fields,
		})
		data = append(data, SessionData{SessionID: session.ID, Persona: session.Persona, Fields: session.Fields})
	}

	if len(entries) == 0 {
		return Summary{}, ErrNoSessions
	}
	return Summary{Report: s.renderer.Combined(entries), Sessions: data}, nil
}

// Handoff creates a target session seeded from sourceID along route. Missing
// sources and persona mismatches are reported in HandoffResult.Error and
// create nothing; the returned error is reserved for store failures.
func (s *Service) Handoff(ctx context.Context, route, sourceID string) (HandoffResult, error) {
	r, ok := s.handoffs.Route(route)
	if !ok {
		err := &handoff.MismatchError{Route: route}
		s.metrics.Handoff(route, err)
		return HandoffResult{Error: err.Error()}, nil
	}
	result := HandoffResult{Persona: r.Target}

	unlock := s.locks.Lock(sourceID)
	defer unlock()

	source, err := s.store.Get(ctx, sourceID)
	if errors.Is(err, ErrSessionNotFound) {
		s.metrics.Handoff(route, err)
		result.Error = r.NotFound()
		result.SourceMissing = true
		return result, nil
	}
	if err != nil {
		return HandoffResult{}, fmt.Errorf("load session: %w", err)
	}

	seeds, err := s.handoffs.Transform(route, source.Persona, source.Fields)
	s.metrics.Handoff(route, err)
	if err != nil {
		s.logger.Info("handoff rejected",
			zap.String("route", route),
			zap.String("session_id", sourceID),
			zap.Error(err))
		result.Error = err.Error()
		return result, nil
	}

	target := s.personas.Resolve(r.Target)
	session := s.open(s.newID(), target)
	session.Fields.Merge(seeds)
	if err := s.store.Put(ctx, session); err != nil {
		return HandoffResult{}, fmt.Errorf("store session: %w", err)
	}

	if s.notifier != nil {
		s.notifier.SessionHandoff(ctx, events.SessionHandoff{
			Route:           route,
			SourceSessionID: sourceID,
			TargetSessionID: session.ID,
			TargetPersona:   target.ID,
			Prefilled:       session.Fields.Clone(),
			CreatedAt:       session.CreatedAt,
		})
	}

	result.SessionID = session.ID
	result.Persona = target.ID
	result.Greeting = target.Greeting
	result.Prefilled = session.Fields.Clone()
	return result, nil
}

// ExpireIdle deletes sessions untouched for longer than ttl and returns how
// many were removed. Stores without IdleLister support expire nothing.
func (s *Service) ExpireIdle(ctx context.Context, ttl time.Duration) (int, error) {
	lister, ok := s.store.(IdleLister)
	if !ok || ttl <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-ttl)
	ids, err := lister.IdleSince(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list idle sessions: %w", err)
	}

	removed := 0
	for _, id := range ids {
		if s.expire(ctx, id, cutoff) {
			removed++
		}
	}
	return removed, nil
}

func (s *Service) expire(ctx context.Context, id string, cutoff time.Time) bool {
	unlock := s.locks.Lock(id)
	defer unlock()

	// The session may have been touched since it was listed.
	session, err := s.store.Get(ctx, id)
	if err != nil || !session.UpdatedAt.Before(cutoff) {
		return false
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil || !deleted {
		return false
	}
	s.metrics.SessionRemoved("idle")
	return true
}
