package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreVIPScenario(t *testing.T) {
	// VIP sender, high subject keyword, received 1h ago, direct recipient,
	// normal importance: 10 + 50 + 30 + 20 + 15 = 125.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	msg := Message{
		FromAddress:       "ceo@company.com",
		Subject:           "Action Required: budget",
		ReceivedAt:        now.Add(-1 * time.Hour),
		IsDirectRecipient: true,
		Importance:        ImportanceNormal,
	}

	score := ScoreAt(msg, testRules(), now)
	assert.Equal(t, 125, score)
	assert.Equal(t, "high", Badge(score))
}

func TestScoreLowPriorityIsZero(t *testing.T) {
	msg := Message{FromAddress: "newsletter@service.com", Subject: "Weekly specials"}
	assert.Equal(t, 0, Score(msg, testRules()))
}

func TestScoreZeroReservedForLowPriority(t *testing.T) {
	// Zero iff low priority, in both directions.
	now := time.Now()
	rules := testRules()

	messages := []Message{
		{FromAddress: "someone@example.com", Subject: "hello"},
		{FromAddress: "someone@example.com", Subject: "stale", ReceivedAt: now.AddDate(0, 0, -10)},
		{FromAddress: "someone@example.com", Subject: "fyi", Importance: ImportanceLow, IsDirectRecipient: true},
		{FromAddress: "newsletter@service.com", Subject: "Weekly digest"},
	}
	for _, msg := range messages {
		score := ScoreAt(msg, rules, now)
		if IsLowPriority(msg, rules) {
			assert.Equal(t, 0, score)
		} else {
			assert.GreaterOrEqual(t, score, 1)
		}
	}
}

func TestScoreRecencyCascade(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rules := RuleSet{DaysBack: 7}
	base := Message{FromAddress: "someone@example.com", Subject: "hello"}

	tests := []struct {
		name string
		age  time.Duration
		want int
	}{
		{"under 4h", 1 * time.Hour, 10 + 20},
		{"under 24h", 10 * time.Hour, 10 + 10},
		{"under 48h", 36 * time.Hour, 10 + 5},
		{"older", 72 * time.Hour, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := base
			msg.ReceivedAt = now.Add(-tt.age)
			assert.Equal(t, tt.want, ScoreAt(msg, rules, now))
		})
	}
}

func TestScoreUnknownReceiveTimeNoBonus(t *testing.T) {
	msg := Message{FromAddress: "someone@example.com", Subject: "hello"}
	assert.Equal(t, 10, Score(msg, RuleSet{DaysBack: 7}))
}

func TestScoreReplyCue(t *testing.T) {
	rules := RuleSet{DaysBack: 7}
	msg := Message{
		FromAddress: "someone@example.com",
		Subject:     "hello",
		BodyPreview: "Please REPLY when you get a chance",
	}
	assert.Equal(t, 10+10, Score(msg, rules))
}

func TestScoreImportance(t *testing.T) {
	rules := RuleSet{DaysBack: 7}
	high := Message{FromAddress: "a@b.com", Subject: "x", Importance: ImportanceHigh}
	assert.Equal(t, 10+25, Score(high, rules))

	low := Message{FromAddress: "a@b.com", Subject: "x", Importance: ImportanceLow, IsDirectRecipient: true}
	assert.Equal(t, 10-10+15, Score(low, rules))
}

func TestScoreUncappedStacking(t *testing.T) {
	now := time.Now()
	msg := Message{
		FromAddress:       "boss@company.com",
		Subject:           "URGENT: need this",
		ReceivedAt:        now.Add(-30 * time.Minute),
		Importance:        ImportanceHigh,
		IsDirectRecipient: true,
		BodyPreview:       "can you send your feedback",
	}
	// 10 + 50 + 30 + 20 + 15 + 10 + 25 = 160, no clamp.
	assert.Equal(t, 160, ScoreAt(msg, testRules(), now))
}

func TestScoreIdempotent(t *testing.T) {
	now := time.Now()
	msg := Message{
		FromAddress:       "boss@company.com",
		Subject:           "urgent question",
		ReceivedAt:        now.Add(-2 * time.Hour),
		IsDirectRecipient: true,
	}
	rules := testRules()
	first := ScoreAt(msg, rules, now)
	second := ScoreAt(msg, rules, now)
	assert.Equal(t, first, second)
	assert.Equal(t, IsLowPriority(msg, rules), IsLowPriority(msg, rules))
}

func TestBadgeTiers(t *testing.T) {
	assert.Equal(t, "high", Badge(80))
	assert.Equal(t, "med", Badge(79))
	assert.Equal(t, "med", Badge(40))
	assert.Equal(t, "low", Badge(39))
	assert.Equal(t, "low", Badge(1))
}
