package response

import (
	"encoding/json"
	"strings"
)

// 需要脱敏的配置键（子串匹配，小写）
var secretKeyHints = []string{"secret", "private_key", "api_key", "key", "token", "password"}

// MaskSecret keeps a short prefix and suffix of a sensitive value
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "******"
	}
	return s[:3] + "******" + s[len(s)-3:]
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, hint := range secretKeyHints {
		if strings.Contains(k, hint) {
			return true
		}
	}
	return false
}

// MaskConfigJSON masks secret-shaped fields of a JSON config blob.
// Non-object or malformed input is fully masked rather than leaked.
func MaskConfigJSON(raw string) string {
	if raw == "" {
		return ""
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return "******"
	}
	for k, v := range m {
		if s, ok := v.(string); ok && isSecretKey(k) {
			m[k] = MaskSecret(s)
		}
	}
	out, err := json.Marshal(m)
	if err != nil {
		return "******"
	}
	return string(out)
}
