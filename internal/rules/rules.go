// Package rules resolves raw user-entered keyword lists and the built-in
// defaults into one immutable core.RuleSet per run.
package rules

import (
	"strconv"
	"strings"

	"github.com/mikey/inbox-triage/internal/core"
)

const (
	// DefaultDaysBack is used when the lookback input is missing or invalid
	DefaultDaysBack = 7
	minDaysBack     = 1
	maxDaysBack     = 30
)

// Built-in keyword defaults. User input is merged on top of these; an
// empty merged list simply disables the rule.
var (
	defaultHighSenders []string
	defaultLowSenders  = []string{
		"newsletter", "no-reply", "noreply", "donotreply", "notifications", "marketing",
	}
	defaultHighSubjects = []string{
		"urgent", "asap", "action required", "important", "deadline", "critical", "reminder",
	}
	defaultLowSubjects = []string{
		"newsletter", "unsubscribe", "digest", "promotion", "sale", "webinar", "out of office",
	}
)

// Input holds the raw, user-entered configuration strings
type Input struct {
	HighSenders  string // comma-separated VIP sender substrings
	LowSenders   string // comma-separated muted sender substrings
	HighSubjects string // comma-separated high-priority subject keywords
	LowSubjects  string // comma-separated low-priority subject keywords
	DaysBack     string // lookback window in days, 1..30
}

// Resolve merges user input with the built-in defaults and produces the
// run's RuleSet. It never fails: unparseable or out-of-range DaysBack
// falls back to DefaultDaysBack.
func Resolve(in Input) core.RuleSet {
	return core.RuleSet{
		HighSenders:  merge(in.HighSenders, defaultHighSenders),
		LowSenders:   merge(in.LowSenders, defaultLowSenders),
		HighSubjects: merge(in.HighSubjects, defaultHighSubjects),
		LowSubjects:  merge(in.LowSubjects, defaultLowSubjects),
		DaysBack:     resolveDaysBack(in.DaysBack),
	}
}

// merge unions the parsed user tokens with the defaults, preserving set
// semantics: lowercase, trimmed, deduplicated, no empty entries.
func merge(raw string, defaults []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(token string) {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			return
		}
		if _, ok := seen[token]; ok {
			return
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	for _, token := range strings.Split(raw, ",") {
		add(token)
	}
	for _, token := range defaults {
		add(token)
	}
	return out
}

func resolveDaysBack(raw string) int {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days < minDaysBack || days > maxDaysBack {
		return DefaultDaysBack
	}
	return days
}
