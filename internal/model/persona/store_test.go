package persona_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

func TestSeedCoversSuite(t *testing.T) {
	items := persona.Seed()
	require.Len(t, items, 13)

	seen := make(map[string]bool)
	for _, p := range items {
		assert.False(t, seen[p.ID], "duplicate persona %s", p.ID)
		seen[p.ID] = true

		assert.NotEmpty(t, p.Name, p.ID)
		assert.NotEmpty(t, p.Greeting, p.ID)
		assert.NotEmpty(t, p.Fields, p.ID)
		assert.Contains(t, p.Instruction, "EUREKA", p.ID)

		names := make(map[string]bool)
		for _, f := range p.Fields {
			assert.False(t, names[f.Name], "%s declares %s twice", p.ID, f.Name)
			names[f.Name] = true
		}
	}
}

func TestOfferClarifierSchema(t *testing.T) {
	store := persona.NewDefaultStore()
	p, ok := store.FindByID(persona.OfferClarifier)
	require.True(t, ok)

	assert.Equal(t, []string{
		"product_name", "core_transformation", "features", "delivery_method",
		"format", "pricing", "unique_value", "target_audience", "problems_solved",
	}, p.FieldNames())

	features, ok := p.Field("features")
	require.True(t, ok)
	assert.True(t, features.List)
	assert.True(t, strings.HasPrefix(p.Greeting, "🎯 **Offer Clarifier GPT**"))
	assert.Contains(t, p.Greeting, "What is your product, service, or offer called?")
}

func TestResolveFallsBackToDefault(t *testing.T) {
	store := persona.NewDefaultStore()

	assert.Equal(t, persona.AvatarCreator, store.Resolve(persona.AvatarCreator).ID)
	assert.Equal(t, persona.OfferClarifier, store.Resolve("nonexistent").ID)
	assert.Equal(t, persona.OfferClarifier, store.Resolve("").ID)

	only := persona.NewMemoryStore([]persona.Persona{{ID: "solo"}})
	assert.Equal(t, "solo", only.Resolve("missing").ID)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Core Transformation", persona.Humanize("core_transformation"))
	assert.Equal(t, "Trigger GPT Output", persona.Humanize("trigger_gpt_output"))
	assert.Equal(t, "Email SMS Subject Lines", persona.Humanize("email_sms_subject_lines"))
}

func TestLabelPrefersDeclaredLabel(t *testing.T) {
	p := persona.NewDefaultStore().Resolve(persona.OfferClarifier)
	assert.Equal(t, "Offer Name", p.Label("product_name"))
	assert.Equal(t, "Made Up", p.Label("made_up"))
}
