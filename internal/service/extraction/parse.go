package extraction

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
)

var errNoObject = errors.New("extraction: missing json object")

// parseOutput pulls the first JSON object out of raw model output and keeps
// only the allowed names. Malformed JSON is repaired once before giving up.
func parseOutput(content string, allowed []string) (map[string]*chat.Value, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, errNoObject
	}
	body := trimmed[start : end+1]

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(body)
		if rerr != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			return nil, err
		}
	}

	out := make(map[string]*chat.Value, len(allowed))
	for _, name := range allowed {
		field, ok := raw[name]
		if !ok {
			continue
		}
		val, err := chat.ParseValue(field)
		if err != nil || val.Empty() {
			continue
		}
		out[name] = val
	}
	return out, nil
}
