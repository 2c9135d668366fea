package handoff

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

func fieldsFor(t *testing.T, id string) *chat.Fields {
	t.Helper()
	p, ok := persona.NewDefaultStore().FindByID(id)
	require.True(t, ok)
	return chat.NewFields(p.FieldNames()...)
}

func TestOfferToAvatarMapping(t *testing.T) {
	offer := fieldsFor(t, persona.OfferClarifier)
	offer.Fill("target_audience", chat.Text("New fitness coaches"))
	offer.Fill("problems_solved", chat.List("Churn", "Burnout"))
	offer.Fill("core_transformation", chat.Text("Double retention"))
	offer.Fill("unique_value", chat.Text("Done-with-you systems"))
	offer.Fill("features", chat.List("Calls", "Templates"))

	seeds, err := Default().Transform(OfferToAvatar, persona.OfferClarifier, offer)
	require.NoError(t, err)

	assert.Equal(t, "New fitness coaches", seeds["customer_segment"].String())
	assert.Equal(t, []string{"Churn", "Burnout"}, seeds["frustrations_fears"].Items())
	assert.Equal(t, "Double retention", seeds["wants_aspirations"].String())
	assert.Equal(t, []string{"Values: Done-with-you systems", "Features: Calls, Templates"}, seeds["purchase_drivers"].Items())
	assert.Len(t, seeds, 4)
}

func TestOfferToAvatarDropsEmptySeeds(t *testing.T) {
	offer := fieldsFor(t, persona.OfferClarifier)
	offer.Fill("features", chat.List("Calls"))

	seeds, err := Default().Transform(OfferToAvatar, persona.OfferClarifier, offer)
	require.NoError(t, err)

	assert.Equal(t, []string{"Features: Calls"}, seeds["purchase_drivers"].Items())
	assert.NotContains(t, seeds, "customer_segment")
	assert.Len(t, seeds, 1)
}

func TestAvatarRoutesSerializeAllFields(t *testing.T) {
	avatar := fieldsFor(t, persona.AvatarCreator)
	avatar.Fill("avatar_name", chat.Text("Coach Casey"))

	for _, route := range []string{AvatarToBefore, AvatarToAfter} {
		seeds, err := Default().Transform(route, persona.AvatarCreator, avatar)
		require.NoError(t, err, route)
		require.Len(t, seeds, 1)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(seeds["avatar_input"].String()), &decoded))
		assert.Equal(t, "Coach Casey", decoded["avatar_name"])
		assert.Len(t, decoded, 11)
		assert.Nil(t, decoded["objections"])
	}
}

func TestAvatarInputKeepsMarkupCharacters(t *testing.T) {
	avatar := fieldsFor(t, persona.AvatarCreator)
	avatar.Fill("demographics", chat.List("Parents & teachers, age <40"))

	seeds, err := Default().Transform(AvatarToBefore, persona.AvatarCreator, avatar)
	require.NoError(t, err)

	raw := seeds["avatar_input"].String()
	assert.Contains(t, raw, `"demographics":["Parents & teachers, age <40"]`)
	assert.NotContains(t, raw, `\u0026`)
	assert.NotContains(t, raw, `\u003c`)
}

func TestTransformRejectsWrongSource(t *testing.T) {
	_, err := Default().Transform(AvatarToBefore, persona.OfferClarifier, fieldsFor(t, persona.OfferClarifier))

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "Source session is not an avatar_creator session", err.Error())
	assert.Equal(t, persona.OfferClarifier, mismatch.Actual)

	_, err = Default().Transform(OfferToAvatar, persona.AvatarCreator, nil)
	assert.EqualError(t, err, "Source session is not an offer_clarifier session")

	_, err = Default().Transform("offer-to-trigger", persona.OfferClarifier, nil)
	require.True(t, errors.As(err, &mismatch))
	assert.Empty(t, mismatch.Expected)
}

func TestRouteMetadata(t *testing.T) {
	m := Default()
	assert.Equal(t, []string{OfferToAvatar, AvatarToBefore, AvatarToAfter}, m.Routes())

	r, ok := m.Route(OfferToAvatar)
	require.True(t, ok)
	assert.Equal(t, persona.AvatarCreator, r.Target)
	assert.Equal(t, "Offer session not found", r.NotFound())

	r, _ = m.Route(AvatarToAfter)
	assert.Equal(t, "Avatar session not found", r.NotFound())
}
