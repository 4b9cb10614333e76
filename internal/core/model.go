package core

import (
	"time"
)

// Importance is the provider-reported importance flag of a message
type Importance int

const (
	ImportanceNormal Importance = iota
	ImportanceLow
	ImportanceHigh
)

// String returns the lowercase name of the importance flag
func (i Importance) String() string {
	switch i {
	case ImportanceLow:
		return "low"
	case ImportanceHigh:
		return "high"
	default:
		return "normal"
	}
}

// Message is the canonical post-normalization shape of a mailbox message.
// It is constructed once by a transport adapter and never mutated.
type Message struct {
	ID                string
	Subject           string
	FromDisplay       string
	FromAddress       string
	ReceivedAt        time.Time // zero value means unknown
	Importance        Importance
	BodyPreview       string
	IsDirectRecipient bool
}

// ScoredMessage is a Message plus the triage verdict
type ScoredMessage struct {
	Message
	Score       int
	LowPriority bool
}

// Badge returns the presentation tier for a score
func Badge(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 40:
		return "med"
	default:
		return "low"
	}
}

// RuleSet is the immutable per-run triage configuration. All four lists
// hold lowercase, trimmed, non-empty substrings; an empty list disables
// that rule rather than being an error.
type RuleSet struct {
	HighSenders  []string
	LowSenders   []string
	HighSubjects []string
	LowSubjects  []string
	DaysBack     int
}

// Credential is what a transport needs to talk to the mail provider
type Credential struct {
	Token   string
	BaseURL string
}

// Session carries the acting user's identity and credential. It is passed
// explicitly into every transport and normalization call rather than held
// as ambient state.
type Session struct {
	UserAddress string
	Credential  Credential
}

// MarkFailure records one message that could not be marked as read
type MarkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// MarkResult is the outcome of a best-effort bulk mark-as-read call
type MarkResult struct {
	Succeeded []string
	Failed    []MarkFailure
}

// Attempted returns the number of ids submitted for marking
func (r *MarkResult) Attempted() int {
	if r == nil {
		return 0
	}
	return len(r.Succeeded) + len(r.Failed)
}

// TriageResult is what one triage run produces
type TriageResult struct {
	RunID           string
	PriorityList    []ScoredMessage
	LowPriorityList []ScoredMessage
	MarkedCount     int
	DryRun          bool
	Mark            *MarkResult
	StartedAt       time.Time
	Elapsed         time.Duration
}

// InboxClear reports whether the run found nothing to triage
func (r *TriageResult) InboxClear() bool {
	return len(r.PriorityList) == 0 && len(r.LowPriorityList) == 0
}
