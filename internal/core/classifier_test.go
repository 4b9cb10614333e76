package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRules() RuleSet {
	return RuleSet{
		HighSenders:  []string{"ceo@company.com", "boss"},
		LowSenders:   []string{"newsletter", "noreply"},
		HighSubjects: []string{"urgent", "action required"},
		LowSubjects:  []string{"digest", "unsubscribe"},
		DaysBack:     7,
	}
}

func TestIsLowPriority(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{
			name: "muted sender substring",
			msg:  Message{FromAddress: "newsletter@service.com", Subject: "Weekly digest"},
			want: true,
		},
		{
			name: "low subject keyword",
			msg:  Message{FromAddress: "friend@example.com", Subject: "Your Daily Digest"},
			want: true,
		},
		{
			name: "low importance and not direct",
			msg:  Message{FromAddress: "friend@example.com", Subject: "FYI", Importance: ImportanceLow},
			want: true,
		},
		{
			name: "low importance but direct recipient",
			msg:  Message{FromAddress: "friend@example.com", Subject: "FYI", Importance: ImportanceLow, IsDirectRecipient: true},
			want: false,
		},
		{
			name: "plain message",
			msg:  Message{FromAddress: "friend@example.com", Subject: "Lunch?"},
			want: false,
		},
		{
			name: "empty sender does not match",
			msg:  Message{FromAddress: "", Subject: "Lunch?"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLowPriority(tt.msg, rules))
		})
	}
}

func TestIsLowPriorityEmptyListsDisableRules(t *testing.T) {
	msg := Message{FromAddress: "newsletter@service.com", Subject: "Weekly digest"}
	assert.False(t, IsLowPriority(msg, RuleSet{DaysBack: 7}))
}
