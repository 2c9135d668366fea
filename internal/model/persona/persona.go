package persona

import "strings"

// Persona identifiers.
const (
	OfferClarifier           = "offer_clarifier"
	AvatarCreator            = "avatar_creator"
	BeforeStateResearch      = "before_state_research"
	AfterStateResearch       = "after_state_research"
	AvatarValidator          = "avatar_validator"
	TriggerGPT               = "trigger_gpt"
	EPOBuilder               = "epo_builder"
	ScamperSynthesizer       = "scamper_synthesizer"
	WildcardIdeaBot          = "wildcard_idea_bot"
	ConceptCrafter           = "concept_crafter"
	HookHeadlineGPT          = "hook_headline_gpt"
	CampaignConceptGenerator = "campaign_concept_generator"
	IdeaInjectionBot         = "idea_injection_bot"
)

// DefaultID is used whenever a requested persona is unknown.
const DefaultID = OfferClarifier

// Field describes one slot of a persona's schema.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	List  bool   `json:"list,omitempty"`
}

// Persona is a prompt-configured assistant together with the schema it fills.
type Persona struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Greeting    string  `json:"greeting"`
	Fields      []Field `json:"fields"`
	Instruction string  `json:"-"`
}

// FieldNames returns the declared field names in order.
func (p Persona) FieldNames() []string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a declared field by name.
func (p Persona) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Label returns the display label of a field, falling back to a humanized name.
func (p Persona) Label(name string) string {
	if f, ok := p.Field(name); ok && f.Label != "" {
		return f.Label
	}
	return Humanize(name)
}

// Humanize turns "core_transformation" into "Core Transformation".
func Humanize(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		switch part {
		case "gpt", "cvj", "epo", "epos", "sms", "usp":
			parts[i] = strings.ToUpper(part)
		default:
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
