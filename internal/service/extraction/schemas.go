package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

// Hint describes one field the extractor should look for.
type Hint struct {
	Field       string
	Description string
	List        bool
}

// Template is the extraction schema for one persona. Its hints always cover
// exactly the persona's declared fields, in order.
type Template struct {
	Persona string
	Hints   []Hint
}

// Names lists the field names covered by the template.
func (t Template) Names() []string {
	names := make([]string, len(t.Hints))
	for i, h := range t.Hints {
		names[i] = h.Field
	}
	return names
}

// Render writes the schema as the JSON shape the model must return.
func (t Template) Render() string {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, h := range t.Hints {
		key, _ := json.Marshal(h.Field)
		desc, _ := json.Marshal(h.Description)
		fmt.Fprintf(&buf, "  %s: ", key)
		if h.List {
			fmt.Fprintf(&buf, "[%s]", desc)
		} else {
			buf.Write(desc)
		}
		if i < len(t.Hints)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.String()
}

// Registry maps personas to bespoke field descriptions. Personas without an
// entry get a generic description for each declared field instead of one
// catch-all field, so extracted keys always match the persona's registry.
type Registry struct {
	descriptions map[string]map[string]string
}

// NewRegistry returns a Registry with the given per-persona descriptions.
func NewRegistry(descriptions map[string]map[string]string) *Registry {
	return &Registry{descriptions: descriptions}
}

// DefaultRegistry carries the bespoke schemas of the core personas.
func DefaultRegistry() *Registry {
	return NewRegistry(bespoke)
}

// Bespoke reports whether the persona has hand-written descriptions.
func (r *Registry) Bespoke(personaID string) bool {
	_, ok := r.descriptions[personaID]
	return ok
}

// For builds the template for p.
func (r *Registry) For(p persona.Persona) Template {
	descs := r.descriptions[p.ID]
	hints := make([]Hint, 0, len(p.Fields))
	for _, f := range p.Fields {
		desc, ok := descs[f.Name]
		if !ok {
			desc = genericDescription(f)
		}
		hints = append(hints, Hint{Field: f.Name, Description: desc, List: f.List})
	}
	return Template{Persona: p.ID, Hints: hints}
}

func genericDescription(f persona.Field) string {
	label := strings.ToLower(f.Label)
	if f.List {
		return fmt.Sprintf("Any clearly stated %s, as an array", label)
	}
	return fmt.Sprintf("Any clearly stated %s", label)
}

var bespoke = map[string]map[string]string{
	persona.OfferClarifier: {
		"product_name":        "The name of the product/service/offer",
		"core_transformation": "The main outcome or transformation customers get",
		"features":            "Key features or deliverables as array",
		"delivery_method":     "How it's delivered (live, digital, coaching, etc.)",
		"format":              "What format it's in (course, membership, service, SaaS, etc.)",
		"pricing":             "Price or pricing model",
		"unique_value":        "What makes it different/unique (USP)",
		"target_audience":     "Who it's for/ideal customer",
		"problems_solved":     "Problems it solves as array",
	},
	persona.AvatarCreator: {
		"customer_segment":   "Who is their ideal customer",
		"avatar_name":        "The name given to the avatar",
		"demographics":       "Age, job, income, location, family, lifestyle details",
		"frustrations_fears": "Problems they face, what keeps them up at night",
		"wants_aspirations":  "Dreams, goals, what they're working toward, values",
		"purchase_drivers":   "What makes them say yes, what they value most",
		"objections":         "What might stop them from buying, concerns, hesitations",
		"decision_making":    "How they make decisions, who influences them",
		"before_state":       "Life before the solution, how they feel, struggles",
		"after_state":        "Life after using the solution, improvements, new feelings",
		"emotional_shift":    "Emotional transformation from negative to positive",
	},
	persona.BeforeStateResearch: {
		"avatar_input":           "The original customer avatar data provided",
		"what_they_have":         "What unwanted or frustrating things they have in their life right now",
		"how_they_feel":          "How they feel emotionally - frustrated, overwhelmed, lost, anxious, etc.",
		"average_day":            "What their typical day looks like and where struggles show up",
		"status":                 "How they feel about themselves or how others see them",
		"evil_they_face":         "What they think is the cause of the problem or root cause they're fighting",
		"research_communities":   "Online communities where people talk about this situation",
		"emotional_patterns":     "Patterns in emotions and struggles found in research",
		"before_state_narrative": "Complete before state story in narrative format",
		"empathy_map":            "Empathy map summary of their before state",
	},
	persona.AfterStateResearch: {
		"avatar_input":            "The customer avatar and before state data provided",
		"what_they_have_now":      "What they have in their life after the transformation",
		"how_they_feel_now":       "How they feel emotionally now - confident, relieved, proud, etc.",
		"average_day_now":         "What their typical day looks like after success",
		"status_now":              "How they see themselves and how others see them now",
		"good_they_do":            "The good they are now able to do for others",
		"research_communities":    "Online communities where people celebrate this kind of success",
		"transformation_language": "Words and phrases people use to describe the transformation",
		"after_state_narrative":   "Complete after state story in narrative format",
		"success_stories":         "Success stories or testimonials that illustrate the after state",
	},
}
