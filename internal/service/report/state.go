package report

import (
	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

var beforeStateSections = []section{
	{Icon: "👥", Title: "Avatar Input", Field: "avatar_input"},
	{Icon: "💔", Title: "What They Have", Field: "what_they_have"},
	{Icon: "💔", Title: "How They Feel", Field: "how_they_feel"},
	{Icon: "👥", Title: "Average Day", Field: "average_day"},
	{Icon: "👥", Title: "Status", Field: "status"},
	{Icon: "💔", Title: "Evil They Face", Field: "evil_they_face"},
	{Icon: "🔗", Title: "Research Communities", Field: "research_communities"},
	{Icon: "🧠", Title: "Emotional Patterns", Field: "emotional_patterns"},
	{Icon: "📖", Title: "Before State Narrative", Field: "before_state_narrative"},
	{Icon: "🤔", Title: "Empathy Map", Field: "empathy_map"},
}

var afterStateSections = []section{
	{Icon: "👥", Title: "Avatar Input", Field: "avatar_input"},
	{Icon: "🎁", Title: "What They Have Now", Field: "what_they_have_now"},
	{Icon: "😊", Title: "How They Feel Now", Field: "how_they_feel_now"},
	{Icon: "🌅", Title: "Average Day Now", Field: "average_day_now"},
	{Icon: "🏆", Title: "Status Now", Field: "status_now"},
	{Icon: "🤝", Title: "Good They Do", Field: "good_they_do"},
	{Icon: "🔗", Title: "Research Communities", Field: "research_communities"},
	{Icon: "🗣️", Title: "Transformation Language", Field: "transformation_language"},
	{Icon: "📖", Title: "After State Narrative", Field: "after_state_narrative"},
	{Icon: "🌟", Title: "Success Stories", Field: "success_stories"},
}

// BeforeState renders the before state research report.
func BeforeState(p persona.Persona, fields *chat.Fields) string {
	return sectionReport(
		"#### 🔍 BEFORE STATE RESEARCH – COMPLETE CUSTOMER AVATAR REPORT",
		"**Here's a complete breakdown of your customer avatar's \"before\" state based on your answers:**",
		beforeStateSections,
		fields,
		fieldPayload(p, fields, camelCase),
	)
}

// AfterState renders the after state research report.
func AfterState(p persona.Persona, fields *chat.Fields) string {
	return sectionReport(
		"#### 🌞 AFTER STATE RESEARCH – COMPLETE TRANSFORMATION REPORT",
		"**Here's a complete breakdown of your customer avatar's \"after\" state based on your answers:**",
		afterStateSections,
		fields,
		fieldPayload(p, fields, camelCase),
	)
}
