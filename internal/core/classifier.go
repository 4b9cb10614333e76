package core

import (
	"strings"
)

// IsLowPriority reports whether a message should be gated out of the
// reply-ranking list. A message is low priority when its sender matches a
// muted-sender substring, its subject matches a low-priority keyword, or
// the provider flagged it low importance and the user is not a direct
// recipient. Each condition is independently sufficient.
func IsLowPriority(msg Message, rules RuleSet) bool {
	if containsAny(msg.FromAddress, rules.LowSenders) {
		return true
	}
	if containsAny(strings.ToLower(msg.Subject), rules.LowSubjects) {
		return true
	}
	if msg.Importance == ImportanceLow && !msg.IsDirectRecipient {
		return true
	}
	return false
}

// containsAny reports whether s contains any of the given substrings.
// Both s and the substrings are expected to be lowercase already.
func containsAny(s string, substrs []string) bool {
	if s == "" {
		return false
	}
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
