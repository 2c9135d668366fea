package report

import (
	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

var avatarSections = []section{
	{Icon: "👤", Title: "Avatar Name", Field: "avatar_name", Inline: true},
	{Icon: "👥", Title: "Customer Segment", Field: "customer_segment", Inline: true},
	{Icon: "🧠", Title: "Demographics", Field: "demographics"},
	{Icon: "💔", Title: "Frustrations & Fears", Field: "frustrations_fears"},
	{Icon: "💪", Title: "Wants & Aspirations", Field: "wants_aspirations"},
	{Icon: "💰", Title: "Purchase Drivers", Field: "purchase_drivers"},
	{Icon: "🤔", Title: "Objections", Field: "objections"},
	{Icon: "🧠", Title: "Decision Making", Field: "decision_making"},
	{Icon: "👥", Title: "Before State", Field: "before_state"},
	{Icon: "🌞", Title: "After State", Field: "after_state"},
	{Icon: "💫", Title: "Emotional Shift", Field: "emotional_shift"},
}

// Avatar renders the avatar creator report.
func Avatar(p persona.Persona, fields *chat.Fields) string {
	return sectionReport(
		"#### 📸 AVATAR CREATOR – COMPLETE CUSTOMER AVATAR REPORT",
		"**Here's a complete breakdown of your customer avatar based on your answers:**",
		avatarSections,
		fields,
		fieldPayload(p, fields, camelCase),
	)
}
