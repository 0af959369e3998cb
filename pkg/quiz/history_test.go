package quiz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_RecordPrompt(t *testing.T) {
	h := NewHistory()

	h.RecordPrompt("What is 2+2?")
	h.RecordPrompt("What is 3+3?")
	h.RecordPrompt("What is 2+2?") // duplicate

	assert.Equal(t, []string{"What is 2+2?", "What is 3+3?"}, h.AskedPrompts)
	assert.Equal(t, "What is 2+2?", h.LastPrompt, "duplicate still becomes most recent")
	assert.True(t, h.HasAsked("What is 3+3?"))
	assert.False(t, h.HasAsked("never asked"))
}

func TestHistory_Forget(t *testing.T) {
	h := NewHistory()
	h.RecordPrompt("a")
	h.RecordPrompt("b")
	h.RecordPrompt("c")

	h.Forget([]string{"a", "c", "not present"})

	assert.Equal(t, []string{"b"}, h.AskedPrompts)
}

func TestHistory_RecentRemoteIDsRing(t *testing.T) {
	h := NewHistory()

	for i := 0; i < RecentRemoteLimit+5; i++ {
		h.RecordRemoteID(fmt.Sprintf("q-%d", i))
		assert.LessOrEqual(t, len(h.RecentRemoteIDs), RecentRemoteLimit)
	}

	// Oldest entries evicted first
	assert.Len(t, h.RecentRemoteIDs, RecentRemoteLimit)
	assert.Equal(t, "q-5", h.RecentRemoteIDs[0])
	assert.Equal(t, fmt.Sprintf("q-%d", RecentRemoteLimit+4), h.RecentRemoteIDs[RecentRemoteLimit-1])
}

func TestHistory_RecordRemoteID_Empty(t *testing.T) {
	h := NewHistory()
	h.RecordRemoteID("")
	assert.Empty(t, h.RecentRemoteIDs)
}
