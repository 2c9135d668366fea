package report

import (
	"strings"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

// Generic renders a labeled section per declared field. Used for personas
// without a bespoke layout.
func Generic(p persona.Persona, fields *chat.Fields) string {
	sections := make([]section, len(p.Fields))
	for i, f := range p.Fields {
		sections[i] = section{Icon: "📌", Title: f.Label, Field: f.Name, Inline: !f.List}
	}

	name := p.Name
	if name == "" {
		name = persona.Humanize(p.ID)
	}
	return sectionReport(
		"#### 📋 "+strings.ToUpper(name)+" – SUMMARY REPORT",
		"**Here's everything we captured in this session:**",
		sections,
		fields,
		fieldPayload(p, fields, declaredName),
	)
}
