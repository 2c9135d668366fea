package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

func textOr(v *chat.Value, fallback string) string {
	if v.Empty() {
		return fallback
	}
	return v.String()
}

// bullets renders "* item" lines, or a single placeholder bullet.
func bullets(v *chat.Value) string {
	if v.Empty() {
		return "* " + NotSpecified
	}
	items := v.Items()
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "* " + item
	}
	return strings.Join(lines, "\n")
}

// numbered renders "* Feature 1: item" lines.
func numbered(v *chat.Value, label string) string {
	if v.Empty() {
		return fmt.Sprintf("* %s 1: %s", label, NotSpecified)
	}
	items := v.Items()
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("* %s %d: %s", label, i+1, item)
	}
	return strings.Join(lines, "\n")
}

func joinedOr(v *chat.Value, fallback string) string {
	if v.Empty() {
		return fallback
	}
	return strings.Join(v.Items(), ", ")
}

func scalar(v *chat.Value) string {
	return v.String()
}

func list(v *chat.Value) []string {
	return v.Items()
}

// payloadEntry keeps payload keys in a fixed order.
type payloadEntry struct {
	Key   string
	Value any
}

type orderedPayload []payloadEntry

func (o orderedPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := encode(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// fieldPayload maps every declared field to a payload value: list fields become
// arrays and scalar fields strings, so the shape never depends on content.
func fieldPayload(p persona.Persona, fields *chat.Fields, key func(string) string) orderedPayload {
	out := make(orderedPayload, 0, len(p.Fields))
	for _, f := range p.Fields {
		v := fields.Get(f.Name)
		var val any = scalar(v)
		if f.List {
			val = list(v)
		}
		out = append(out, payloadEntry{Key: key(f.Name), Value: val})
	}
	return out
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// jsonBlock renders the fenced payload section shared by every report.
func jsonBlock(v any) string {
	raw, err := encode(v)
	if err != nil {
		raw = []byte("{}")
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(raw)
	}
	return "#### 🧾 JSON OUTPUT (For downstream GPTs)\n```json\n" + pretty.String() + "\n```"
}

func camelCase(name string) string {
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func declaredName(name string) string { return name }

// section is one heading of a bullet-style report.
type section struct {
	Icon   string
	Title  string
	Field  string
	Inline bool
}

// sectionReport renders header, intro, one block per section and the payload.
func sectionReport(header, intro string, sections []section, fields *chat.Fields, payload any) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(intro)
	b.WriteString("\n\n")
	for _, s := range sections {
		fmt.Fprintf(&b, "**%s %s**\n", s.Icon, s.Title)
		v := fields.Get(s.Field)
		if s.Inline {
			b.WriteString(textOr(v, NotSpecified))
		} else {
			b.WriteString(bullets(v))
		}
		b.WriteString("\n\n")
	}
	b.WriteString("---\n\n")
	b.WriteString(jsonBlock(payload))
	return b.String()
}
