// Package report turns a persona's collected fields into the markdown summary
// shown to the user, with an embedded JSON payload for downstream assistants.
package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

// NotSpecified stands in for a missing value.
const NotSpecified = "[Not specified]"

// RenderFunc renders one persona's report. It must not mutate fields.
type RenderFunc func(p persona.Persona, fields *chat.Fields) string

// Entry is one session included in a combined report.
type Entry struct {
	SessionID string
	Persona   persona.Persona
	Fields    *chat.Fields
}

// Renderer dispatches to a per-persona RenderFunc, falling back to Generic.
type Renderer struct {
	mu    sync.RWMutex
	funcs map[string]RenderFunc
}

// NewRenderer returns a Renderer with the bespoke reports registered.
func NewRenderer() *Renderer {
	r := &Renderer{funcs: make(map[string]RenderFunc)}
	r.Register(persona.OfferClarifier, Offer)
	r.Register(persona.AvatarCreator, Avatar)
	r.Register(persona.BeforeStateResearch, BeforeState)
	r.Register(persona.AfterStateResearch, AfterState)
	return r
}

// Register installs fn for a persona id, replacing any previous entry.
func (r *Renderer) Register(personaID string, fn RenderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[personaID] = fn
}

// Render produces the report for p.
func (r *Renderer) Render(p persona.Persona, fields *chat.Fields) string {
	r.mu.RLock()
	fn, ok := r.funcs[p.ID]
	r.mu.RUnlock()
	if !ok {
		fn = Generic
	}
	return fn(p, fields)
}

// Combined concatenates the reports of several sessions.
func (r *Renderer) Combined(entries []Entry) string {
	var b strings.Builder
	b.WriteString("#### 🧩 EUREKA – COMBINED SUMMARY REPORT\n\n")
	fmt.Fprintf(&b, "**Sessions included: %d**\n", len(entries))
	for _, e := range entries {
		b.WriteString("\n---\n\n")
		fmt.Fprintf(&b, "### %s (`%s`)\n\n", e.Persona.Name, e.SessionID)
		b.WriteString(r.Render(e.Persona, e.Fields))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
