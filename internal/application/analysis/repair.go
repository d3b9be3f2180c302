package analysis

import (
	"encoding/json"
	"strings"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

// stripFences removes leading/trailing code-fence markers and
// surrounding whitespace. Wrapping is treated as cosmetic; nothing else
// is repaired.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// repairReply cleans the raw model reply and parses it as one JSON
// value. The MALFORMED_JSON detail carries the cleaned length only;
// reply content never leaves this function on the error path.
func repairReply(raw string) (any, error) {
	cleaned := stripFences(raw)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, domain.Ef(domain.CodeMalformedJSON, "cleaned reply length %d", len(cleaned))
	}
	return v, nil
}
