// Package handoff seeds a new persona session from another session's fields.
package handoff

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

// Route names.
const (
	OfferToAvatar  = "offer-to-avatar"
	AvatarToBefore = "avatar-to-before"
	AvatarToAfter  = "avatar-to-after"
)

// MapFunc derives target seeds from the source fields.
type MapFunc func(source *chat.Fields) map[string]*chat.Value

// Route is one supported source → target pair.
type Route struct {
	Name        string
	Source      string
	Target      string
	SourceLabel string
	Map         MapFunc
}

// NotFound is the message reported when the source session is missing.
func (r Route) NotFound() string {
	return r.SourceLabel + " session not found"
}

// MismatchError reports a source session of the wrong persona or an
// unsupported route.
type MismatchError struct {
	Route    string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("Unsupported handoff route: %s", e.Route)
	}
	return fmt.Sprintf("Source session is not an %s session", e.Expected)
}

// Matrix is the set of supported routes.
type Matrix struct {
	routes map[string]Route
	order  []string
}

// NewMatrix builds a Matrix from routes; later duplicates win.
func NewMatrix(routes ...Route) *Matrix {
	m := &Matrix{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		if _, dup := m.routes[r.Name]; !dup {
			m.order = append(m.order, r.Name)
		}
		m.routes[r.Name] = r
	}
	return m
}

// Default returns the three routes of the persona pipeline.
func Default() *Matrix {
	return NewMatrix(
		Route{
			Name:        OfferToAvatar,
			Source:      persona.OfferClarifier,
			Target:      persona.AvatarCreator,
			SourceLabel: "Offer",
			Map:         offerToAvatar,
		},
		Route{
			Name:        AvatarToBefore,
			Source:      persona.AvatarCreator,
			Target:      persona.BeforeStateResearch,
			SourceLabel: "Avatar",
			Map:         avatarInput,
		},
		Route{
			Name:        AvatarToAfter,
			Source:      persona.AvatarCreator,
			Target:      persona.AfterStateResearch,
			SourceLabel: "Avatar",
			Map:         avatarInput,
		},
	)
}

// Route looks up a route by name.
func (m *Matrix) Route(name string) (Route, bool) {
	r, ok := m.routes[name]
	return r, ok
}

// Routes lists the route names in registration order.
func (m *Matrix) Routes() []string {
	return append([]string(nil), m.order...)
}

// Transform validates the source persona and returns non-empty seeds for the
// route's target. It never mutates source.
func (m *Matrix) Transform(routeName, sourcePersona string, source *chat.Fields) (map[string]*chat.Value, error) {
	r, ok := m.routes[routeName]
	if !ok {
		return nil, &MismatchError{Route: routeName}
	}
	if sourcePersona != r.Source {
		return nil, &MismatchError{Route: routeName, Expected: r.Source, Actual: sourcePersona}
	}

	seeds := r.Map(source)
	for name, v := range seeds {
		if v.Empty() {
			delete(seeds, name)
		}
	}
	return seeds, nil
}

func offerToAvatar(offer *chat.Fields) map[string]*chat.Value {
	var drivers []string
	if usp := offer.Get("unique_value"); !usp.Empty() {
		drivers = append(drivers, "Values: "+usp.String())
	}
	if features := offer.Get("features"); !features.Empty() {
		drivers = append(drivers, "Features: "+strings.Join(features.Items(), ", "))
	}

	return map[string]*chat.Value{
		"customer_segment":   offer.Get("target_audience"),
		"frustrations_fears": offer.Get("problems_solved"),
		"wants_aspirations":  offer.Get("core_transformation"),
		"purchase_drivers":   chat.List(drivers...),
	}
}

func avatarInput(avatar *chat.Fields) map[string]*chat.Value {
	raw, err := avatar.MarshalJSON()
	if err != nil {
		return nil
	}
	return map[string]*chat.Value{"avatar_input": chat.Text(string(raw))}
}
