package core

import (
	"strings"
	"time"
)

// Scoring weights. The score is additive from the baseline; there is no
// upper clamp, so a message can stack every bonus.
const (
	scoreBaseline       = 10
	scoreVIPSender      = 50
	scoreHighSubject    = 30
	scoreRecentUnder4h  = 20
	scoreRecentUnder24h = 10
	scoreRecentUnder48h = 5
	scoreDirect         = 15
	scoreReplyCue       = 10
	scoreImportanceHigh = 25
	scoreImportanceLow  = -10
	scoreFloor          = 1
)

// replyCues are body phrases that suggest the sender expects an answer
var replyCues = []string{
	"please reply",
	"let me know",
	"your thoughts",
	"waiting for",
	"your feedback",
	"can you",
}

// Score computes the priority score for a message. Low-priority messages
// score exactly 0; 0 is reserved for them, so every other message is
// floored at 1. Pure and deterministic given (msg, rules).
func Score(msg Message, rules RuleSet) int {
	return ScoreAt(msg, rules, time.Now())
}

// ScoreAt is Score with an explicit reference time for age computation
func ScoreAt(msg Message, rules RuleSet, now time.Time) int {
	if IsLowPriority(msg, rules) {
		return 0
	}

	score := scoreBaseline

	if containsAny(msg.FromAddress, rules.HighSenders) {
		score += scoreVIPSender
	}

	if containsAny(strings.ToLower(msg.Subject), rules.HighSubjects) {
		score += scoreHighSubject
	}

	score += recencyBonus(msg.ReceivedAt, now)

	if msg.IsDirectRecipient {
		score += scoreDirect
	}

	if containsAny(strings.ToLower(msg.BodyPreview), replyCues) {
		score += scoreReplyCue
	}

	switch msg.Importance {
	case ImportanceHigh:
		score += scoreImportanceHigh
	case ImportanceLow:
		score += scoreImportanceLow
	}

	if score < scoreFloor {
		score = scoreFloor
	}
	return score
}

// recencyBonus is an ordered cascade over message age; the tiers are
// mutually exclusive. An unknown receive time earns no bonus.
func recencyBonus(receivedAt, now time.Time) int {
	if receivedAt.IsZero() {
		return 0
	}
	age := now.Sub(receivedAt)
	switch {
	case age < 4*time.Hour:
		return scoreRecentUnder4h
	case age < 24*time.Hour:
		return scoreRecentUnder24h
	case age < 48*time.Hour:
		return scoreRecentUnder48h
	default:
		return 0
	}
}
