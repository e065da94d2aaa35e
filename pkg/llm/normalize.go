package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WrapInput encloses untrusted text in a tag pair the system prompt refers to.
func WrapInput(tag, text string) string {
	return fmt.Sprintf("<%s> %s </%s>", tag, text, tag)
}

// CleanJSONResponse strips code fences and any prose around the outermost JSON object.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// DecodeJSON normalises a completion and unmarshals it into v.
func DecodeJSON(content string, v any) error {
	cleaned := CleanJSONResponse(content)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("failed to parse response: %w, content: %s", err, cleaned)
	}
	return nil
}
