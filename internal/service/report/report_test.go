package report

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

func lookup(t *testing.T, id string) persona.Persona {
	t.Helper()
	p, ok := persona.NewDefaultStore().FindByID(id)
	require.True(t, ok, id)
	return p
}

func filledOffer() *chat.Fields {
	f := chat.NewFields(persona.NewDefaultStore().Resolve(persona.OfferClarifier).FieldNames()...)
	f.Fill("product_name", chat.Text("CoachFlow"))
	f.Fill("core_transformation", chat.Text("Double client retention"))
	f.Fill("features", chat.List("Weekly calls", "Templates"))
	f.Fill("delivery_method", chat.Text("Live online"))
	f.Fill("format", chat.Text("Group coaching program"))
	f.Fill("pricing", chat.Text("$500"))
	f.Fill("unique_value", chat.Text("Done-with-you systems"))
	f.Fill("target_audience", chat.Text("New fitness coaches"))
	f.Fill("problems_solved", chat.List("Churn", "Burnout"))
	return f
}

func payloadOf(t *testing.T, report string) map[string]any {
	t.Helper()
	start := strings.Index(report, "```json\n")
	require.NotEqual(t, -1, start, "report has no json block")
	body := report[start+len("```json\n"):]
	end := strings.Index(body, "\n```")
	require.NotEqual(t, -1, end)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(body[:end]), &payload))
	return payload
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestOfferReportContent(t *testing.T) {
	p := lookup(t, persona.OfferClarifier)
	out := NewRenderer().Render(p, filledOffer())

	assert.True(t, strings.HasPrefix(out, "#### ✅ OFFER CLARIFIER – ENHANCED OUTCOME SUMMARY REPORT"))
	assert.Contains(t, out, "**Your Answer**: CoachFlow")
	assert.Contains(t, out, "* Feature 1: Weekly calls\n* Feature 2: Templates")
	assert.Contains(t, out, "* Problem 2: Burnout")
	assert.Contains(t, out, "CoachFlow is positioned as a Group coaching program that delivers Double client retention to New fitness coaches who struggle with Churn, Burnout")
	assert.NotContains(t, out, NotSpecified)

	payload := payloadOf(t, out)
	assert.Equal(t, "CoachFlow", payload["title"])
	assert.Equal(t, "$500", payload["pricePoint"])
	assert.Equal(t, []any{"Weekly calls", "Templates"}, payload["features"])
	assert.Equal(t, "Your pricing of $500 is justified by Double client retention and Weekly calls, Templates", payload["valueJustification"])
	opportunities := payload["marketingOpportunities"].(map[string]any)
	assert.Equal(t, "Double client retention for New fitness coaches", opportunities["primaryMessage"])
}

func TestEmptyOfferReportUsesFallbacks(t *testing.T) {
	p := lookup(t, persona.OfferClarifier)
	out := Offer(p, chat.NewFields(p.FieldNames()...))

	assert.Contains(t, out, "* Feature 1: [Not specified]")
	assert.Contains(t, out, "Your offer is positioned as a solution that delivers value to customers who struggle with challenges")
	assert.Contains(t, out, "**What Sets You Apart**: Your unique approach and value delivery")

	payload := payloadOf(t, out)
	assert.Equal(t, "", payload["title"])
	assert.Equal(t, []any{}, payload["features"])
}

func TestPlaceholderAppearsOncePerMissingField(t *testing.T) {
	r := NewRenderer()
	for _, p := range persona.Seed() {
		empty := chat.NewFields(p.FieldNames()...)
		out := r.Render(p, empty)
		assert.Equal(t, len(p.Fields), strings.Count(out, NotSpecified), p.ID)
	}
}

func TestPayloadKeySetIsStatic(t *testing.T) {
	r := NewRenderer()
	for _, p := range persona.Seed() {
		empty := chat.NewFields(p.FieldNames()...)
		full := chat.NewFields(p.FieldNames()...)
		for _, f := range p.Fields {
			if f.List {
				full.Fill(f.Name, chat.List("x", "y"))
			} else {
				full.Fill(f.Name, chat.Text("x"))
			}
		}
		require.True(t, full.Complete())

		emptyKeys := keys(payloadOf(t, r.Render(p, empty)))
		fullKeys := keys(payloadOf(t, r.Render(p, full)))
		assert.Equal(t, emptyKeys, fullKeys, p.ID)
	}
}

func TestRenderIsDeterministicAndReadOnly(t *testing.T) {
	p := lookup(t, persona.OfferClarifier)
	fields := filledOffer()
	before, err := json.Marshal(fields)
	require.NoError(t, err)

	r := NewRenderer()
	first := r.Render(p, fields)
	second := r.Render(p, fields)
	assert.Equal(t, first, second)

	after, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestAvatarReportUsesBulletsAndCamelCase(t *testing.T) {
	p := lookup(t, persona.AvatarCreator)
	fields := chat.NewFields(p.FieldNames()...)
	fields.Fill("avatar_name", chat.Text("Coach Casey"))
	fields.Fill("frustrations_fears", chat.List("Churn", "Burnout"))

	out := Avatar(p, fields)
	assert.Contains(t, out, "**👤 Avatar Name**\nCoach Casey")
	assert.Contains(t, out, "**💔 Frustrations & Fears**\n* Churn\n* Burnout")
	assert.Contains(t, out, "**🤔 Objections**\n* [Not specified]")

	payload := payloadOf(t, out)
	assert.Equal(t, "Coach Casey", payload["avatarName"])
	assert.Equal(t, "", payload["customerSegment"])
	assert.Equal(t, []any{"Churn", "Burnout"}, payload["frustrationsFears"])
}

func TestGenericReportUsesDeclaredNames(t *testing.T) {
	p := lookup(t, persona.TriggerGPT)
	fields := chat.NewFields(p.FieldNames()...)
	fields.Fill("internal_triggers", chat.List("Lost a client"))

	out := NewRenderer().Render(p, fields)
	assert.True(t, strings.HasPrefix(out, "#### 📋 TRIGGER GPT – SUMMARY REPORT"))
	assert.Contains(t, out, "* Lost a client")

	payload := payloadOf(t, out)
	assert.Equal(t, []any{"Lost a client"}, payload["internal_triggers"])
	assert.Contains(t, payload, "avatar_input")
}

func TestCombinedConcatenatesReports(t *testing.T) {
	offer := lookup(t, persona.OfferClarifier)
	avatar := lookup(t, persona.AvatarCreator)

	out := NewRenderer().Combined([]Entry{
		{SessionID: "s1", Persona: offer, Fields: filledOffer()},
		{SessionID: "s2", Persona: avatar, Fields: chat.NewFields(avatar.FieldNames()...)},
	})

	assert.Contains(t, out, "**Sessions included: 2**")
	assert.Contains(t, out, "### Offer Clarifier (`s1`)")
	assert.Contains(t, out, "### Avatar Creator & Empathy Map (`s2`)")
	assert.Less(t, strings.Index(out, "OFFER CLARIFIER"), strings.Index(out, "AVATAR CREATOR"))
}

func TestRegisterOverridesRenderer(t *testing.T) {
	r := NewRenderer()
	r.Register(persona.TriggerGPT, func(persona.Persona, *chat.Fields) string { return "custom" })
	assert.Equal(t, "custom", r.Render(lookup(t, persona.TriggerGPT), nil))
}
