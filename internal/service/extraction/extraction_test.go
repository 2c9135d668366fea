package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
	"github.com/zhouzirui/eureka/backend/internal/service/ai/aitest"
)

func offer(t *testing.T) persona.Persona {
	t.Helper()
	p, ok := persona.NewDefaultStore().FindByID(persona.OfferClarifier)
	require.True(t, ok)
	return p
}

func window() []chat.Message {
	now := time.Now()
	return []chat.Message{
		{Role: chat.RoleAssistant, Content: "What is your offer called?", CreatedAt: now},
		{Role: chat.RoleUser, Content: "CoachFlow", CreatedAt: now},
	}
}

func TestTemplatesCoverDeclaredFields(t *testing.T) {
	reg := DefaultRegistry()
	for _, p := range persona.Seed() {
		tmpl := reg.For(p)
		assert.Equal(t, p.FieldNames(), tmpl.Names(), p.ID)
	}
	assert.True(t, reg.Bespoke(persona.OfferClarifier))
	assert.True(t, reg.Bespoke(persona.AfterStateResearch))
	assert.False(t, reg.Bespoke(persona.TriggerGPT))
}

func TestBespokeDescriptionsOnlyNameDeclaredFields(t *testing.T) {
	store := persona.NewDefaultStore()
	for id, descs := range bespoke {
		p, ok := store.FindByID(id)
		require.True(t, ok, id)
		for name := range descs {
			_, declared := p.Field(name)
			assert.True(t, declared, "%s describes undeclared field %s", id, name)
		}
	}
}

func TestRenderShowsListsAsArrays(t *testing.T) {
	rendered := DefaultRegistry().For(offer(t)).Render()
	assert.Contains(t, rendered, `"product_name": "The name of the product/service/offer",`)
	assert.Contains(t, rendered, `"features": ["Key features or deliverables as array"],`)
	assert.True(t, strings.HasSuffix(rendered, "\"problems_solved\": [\"Problems it solves as array\"]\n}"))
}

func TestParseOutputIsLenient(t *testing.T) {
	allowed := []string{"product_name", "features", "pricing"}

	values, err := parseOutput("Sure!\n```json\n{\"product_name\": \"CoachFlow\", \"features\": [\"calls\", \"\"], \"pricing\": null, \"extra\": \"x\"}\n```", allowed)
	require.NoError(t, err)
	assert.Equal(t, "CoachFlow", values["product_name"].String())
	assert.Equal(t, []string{"calls"}, values["features"].Items())
	assert.NotContains(t, values, "pricing")
	assert.NotContains(t, values, "extra")

	values, err = parseOutput(`{"product_name": "CoachFlow", "pricing": "$500",}`, allowed)
	require.NoError(t, err)
	assert.Equal(t, "$500", values["pricing"].String())

	_, err = parseOutput("no json here", allowed)
	assert.ErrorIs(t, err, errNoObject)
}

func TestExtractRunsDeterministically(t *testing.T) {
	fake := aitest.Reply(`{"product_name": "CoachFlow", "pricing": null}`)
	svc, err := NewService(context.Background(), fake, Config{Enabled: true}, nil, nil)
	require.NoError(t, err)

	p := offer(t)
	values := svc.Extract(context.Background(), p, window(), chat.NewFields(p.FieldNames()...))
	require.Len(t, values, 1)
	assert.Equal(t, "CoachFlow", values["product_name"].String())

	calls := fake.Calls()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Temperature)
	assert.Zero(t, *calls[0].Temperature)
	require.Len(t, calls[0].Messages, 2)
	assert.Contains(t, calls[0].Messages[0].Content, "strict JSON data extractor")
	assert.Contains(t, calls[0].Messages[1].Content, "user: CoachFlow")
	assert.Contains(t, calls[0].Messages[1].Content, `"core_transformation"`)
}

func TestExtractOnlyAsksForMissingFields(t *testing.T) {
	fake := aitest.Reply(`{"product_name": "Other", "pricing": "$500"}`)
	svc, err := NewService(context.Background(), fake, Config{Enabled: true}, nil, nil)
	require.NoError(t, err)

	p := offer(t)
	current := chat.NewFields(p.FieldNames()...)
	current.Fill("product_name", chat.Text("CoachFlow"))

	values := svc.Extract(context.Background(), p, window(), current)
	assert.NotContains(t, values, "product_name")
	assert.Equal(t, "$500", values["pricing"].String())
	assert.NotContains(t, fake.Calls()[0].Messages[1].Content, `"product_name"`)
}

func TestExtractIsSilentOnFailure(t *testing.T) {
	p := offer(t)
	failing := aitest.NewModel(func(context.Context, aitest.Call) (string, error) {
		return "", errors.New("rate limited")
	})
	svc, err := NewService(context.Background(), failing, Config{Enabled: true}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, svc.Extract(context.Background(), p, window(), nil))

	garbage, err := NewService(context.Background(), aitest.Reply("I could not find anything"), Config{Enabled: true}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, garbage.Extract(context.Background(), p, window(), nil))
}

func TestDisabledServiceNeverCallsModel(t *testing.T) {
	fake := aitest.Reply(`{"product_name": "CoachFlow"}`)
	svc, err := NewService(context.Background(), fake, Config{Enabled: false}, nil, nil)
	require.NoError(t, err)

	assert.False(t, svc.Enabled())
	assert.Nil(t, svc.Extract(context.Background(), offer(t), window(), nil))
	assert.Empty(t, fake.Calls())
}
