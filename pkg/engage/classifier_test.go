package engage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTranscriptLine_SpeakerPrefix(t *testing.T) {
	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{"Alex: hi", "Alex", true},
		{"Jordan Li: hello there", "Jordan Li", true},
		{"  Sam  : spaced out", "Sam", true},
		{"Alex: see you at 10:30", "Alex", true}, // only the first colon splits
		{"no colon here", "", false},
		{"", "", false},
		{"00:00:05.579 --> 00:00:06.858", "00", true}, // accepted false positive
		{": leading colon", "", true},                 // degenerate empty name
	}

	for _, tt := range tests {
		name, ok := ClassifyTranscriptLine(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		if tt.ok {
			assert.Equal(t, tt.name, name, "line %q", tt.line)
		}
	}
}

func TestClassifyChatLine_FromToMarkers(t *testing.T) {
	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{"08:00 From Alex to Everyone: hey", "Alex", true},
		{"09:12:44 From Jordan Li to Everyone : does this count?", "Jordan Li", true},
		{"From Sam to Host (privately): psst", "Sam", true},
		{"no markers at all", "", false},
		{"From Alex, no target", "", false},
		{"went to the store From nobody", "", false}, // " to " precedes "From "
		{"08:00 From  to Everyone: hey", "", true},   // degenerate empty name
	}

	for _, tt := range tests {
		name, ok := ClassifyChatLine(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		if tt.ok {
			assert.Equal(t, tt.name, name, "line %q", tt.line)
		}
	}
}

func TestClassifyChatLine_OnlyTextBetweenMarkers(t *testing.T) {
	name, ok := ClassifyChatLine("10:30 From Priya Patel to Alex Chen : re: to-do list")
	assert.True(t, ok)
	assert.Equal(t, "Priya Patel", name)
}
