package logger

import (
	"log/slog"
	"strings"
)

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"token",
	"password",
	"secret",
	"key",
	"credential",
	"auth",
	"bearer",
}

// Keys that match a sensitive pattern but carry no secret material.
var nonSensitiveKeys = map[string]bool{
	"token_attribute": true,
	"token_size":      true,
	"token_unique":    true,
	"attribute":       true,
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if IsSensitiveKey(a.Key) && a.Value.String() != "" {
			return slog.String(a.Key, MaskToken(a.Value.String()))
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// MaskToken partially masks a token value, keeping only the first and
// last three characters as a correlation hint. Values too short to mask
// safely are fully redacted.
func MaskToken(value string) string {
	if len(value) < 12 {
		return redactedValue
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	if nonSensitiveKeys[keyLower] {
		return false
	}
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
