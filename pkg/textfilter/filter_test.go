package textfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Clean(t *testing.T) {
	f := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single word",
			input:    "What the hell kind of answer is that?",
			expected: "What the heck kind of answer is that?",
		},
		{
			name:     "several words",
			input:    "This is damn crap!",
			expected: "This is dang crud!",
		},
		{
			name:     "uppercase kept",
			input:    "DAMN you got it right!",
			expected: "DANG you got it right!",
		},
		{
			name:     "title case kept",
			input:    "Hell no, wrong again",
			expected: "Heck no, wrong again",
		},
		{
			name:     "mixed case kept",
			input:    "HeLl of a guess, DaMn impressive",
			expected: "HeCk of a guess, DaNg impressive",
		},
		{
			name:     "word boundaries respected",
			input:    "I love classical music and data processing",
			expected: "I love classical music and data processing",
		},
		{
			name:     "punctuation adjacent",
			input:    "What the hell?! That's damn hard.",
			expected: "What the heck?! That's dang hard.",
		},
		{
			name:     "clean text untouched",
			input:    "Which planet is closest to the sun?",
			expected: "Which planet is closest to the sun?",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Clean(tt.input))
		})
	}
}

func TestFilter_IsClean(t *testing.T) {
	f := New()

	assert.True(t, f.IsClean("Which river is the longest in the world?"))
	assert.True(t, f.IsClean("Assassins played a role in medieval politics"))
	assert.False(t, f.IsClean("you dumbass"))
	assert.False(t, f.IsClean("BULLSHIT"))
}
