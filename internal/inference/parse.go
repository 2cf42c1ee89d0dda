package inference

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ParseCategorizeResults decodes a categorization reply.
// When the reply contains a fenced code block only its interior is decoded.
func ParseCategorizeResults(reply string) ([]CategorizeResult, error) {
	payload := strings.TrimSpace(reply)
	if match := fencedBlock.FindStringSubmatch(reply); match != nil {
		payload = strings.TrimSpace(match[1])
	}

	var results []CategorizeResult
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, &MalformedResponseError{Reply: reply, Err: err}
	}
	if results == nil {
		results = []CategorizeResult{}
	}
	return results, nil
}
