package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSenderDisplay(t *testing.T) {
	tests := []struct {
		name    string
		display string
		address string
		want    string
	}{
		{"both present", "Jane Doe", "jane@example.com", "Jane Doe <jane@example.com>"},
		{"name equals address", "jane@example.com", "jane@example.com", "jane@example.com"},
		{"name equals address ignoring case", "Jane@Example.com", "jane@example.com", "jane@example.com"},
		{"address only", "", "jane@example.com", "jane@example.com"},
		{"name only", "Jane Doe", "", "Jane Doe"},
		{"both empty", "", "", ""},
		{"whitespace trimmed", " Jane ", " jane@example.com ", "Jane <jane@example.com>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SenderDisplay(tt.display, tt.address))
		})
	}
}

func TestSubjectSentinel(t *testing.T) {
	assert.Equal(t, NoSubject, Subject(""))
	assert.Equal(t, NoSubject, Subject("   "))
	assert.Equal(t, "Budget review", Subject("Budget review"))
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "jane@example.com", Address(" Jane@Example.COM "))
	assert.Equal(t, "", Address(""))
}

func TestTimeParsing(t *testing.T) {
	parsed := Time("2026-03-10T09:30:00Z")
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), parsed)

	withOffset := Time("2026-03-10T09:30:00+02:00")
	assert.False(t, withOffset.IsZero())

	noZone := Time("2026-03-10T09:30:00")
	assert.False(t, noZone.IsZero())

	// Absent or garbage input degrades to the zero time, never an error.
	assert.True(t, Time("").IsZero())
	assert.True(t, Time("next tuesday").IsZero())
}

func TestIsDirectRecipient(t *testing.T) {
	to := []string{"other@example.com", "Me@Example.com "}

	assert.True(t, IsDirectRecipient("me@example.com", to))
	assert.False(t, IsDirectRecipient("someone@example.com", to))
	assert.False(t, IsDirectRecipient("", to))
	assert.False(t, IsDirectRecipient("me@example.com", nil))
	// Substring of a recipient is not a match; the comparison is exact.
	assert.False(t, IsDirectRecipient("e@example.com", to))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 10))
	assert.Len(t, Preview("abcdefghij", 4), 4)

	// Truncation never splits a multi-byte rune.
	s := "héllo wörld"
	got := Preview(s, 2)
	assert.LessOrEqual(t, len(got), 2)
	assert.True(t, len(got) == 0 || got == "h")

	// Invalid UTF-8 is dropped rather than propagated.
	invalid := string([]byte{'a', 0xff, 'b'})
	assert.Equal(t, "ab", Preview(invalid, 10))
}
