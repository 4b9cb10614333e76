// Package normalize holds the transport-independent pieces of mapping a
// provider's wire representation into the canonical core.Message shape.
package normalize

import (
	"strings"
	"time"
	"unicode/utf8"
)

// NoSubject is substituted when a message arrives without a subject line
const NoSubject = "(no subject)"

// MaxPreviewBytes bounds the stored body preview
const MaxPreviewBytes = 512

// SenderDisplay renders the human-readable sender as "Name <address>"
// when both parts are present and distinct, otherwise whichever is
// available. Returns "" only when both are empty.
func SenderDisplay(name, address string) string {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	switch {
	case name != "" && address != "" && !strings.EqualFold(name, address):
		return name + " <" + address + ">"
	case address != "":
		return address
	default:
		return name
	}
}

// Subject substitutes the sentinel for an absent subject
func Subject(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return NoSubject
	}
	return raw
}

// Address lowercases and trims an address for matching. An unparseable or
// absent address comes through as "".
func Address(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Time parses an ISO 8601 timestamp. Absent or unparseable input yields
// the zero time so age computations degrade to "no recency bonus" instead
// of failing the run.
func Time(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IsDirectRecipient reports whether the acting user's address appears in
// the primary-recipient list by case-insensitive exact match. Carbon-copy
// recipients do not count.
func IsDirectRecipient(userAddress string, toAddresses []string) bool {
	if userAddress == "" {
		return false
	}
	for _, addr := range toAddresses {
		if strings.EqualFold(strings.TrimSpace(addr), userAddress) {
			return true
		}
	}
	return false
}

// Preview truncates body text to max bytes while keeping it valid UTF-8
func Preview(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return sanitizeUTF8(text)
	}
	truncated := text[:max]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return sanitizeUTF8(truncated)
}

// sanitizeUTF8 drops invalid UTF-8 sequences
func sanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				continue
			}
		}
		result = append(result, r)
	}
	return string(result)
}
