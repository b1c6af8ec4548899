package engage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_EmptyInputs(t *testing.T) {
	tallies := Aggregate("", "")
	assert.Empty(t, tallies)
}

func TestAggregate_EndToEndExample(t *testing.T) {
	transcript := "Alex: hi\nJordan: hello\nAlex: bye"
	chat := "08:00 From Alex to Everyone: hey"

	tallies := Aggregate(transcript, chat)

	assert.Len(t, tallies, 2)
	assert.Equal(t, Tally{TranscriptLines: 2, ChatCount: 1}, tallies["Alex"])
	assert.Equal(t, Tally{TranscriptLines: 1, ChatCount: 0}, tallies["Jordan"])
}

func TestAggregate_ChatOnlyParticipant(t *testing.T) {
	chat := "08:00 From Priya to Everyone: hi\n08:01 From Priya to Everyone: again"

	tallies := Aggregate("", chat)

	assert.Equal(t, Tally{TranscriptLines: 0, ChatCount: 2}, tallies["Priya"])
}

func TestAggregate_SkipsNonSpeakerLines(t *testing.T) {
	transcript := "WEBVTT\n\n1\n00.00.01 --> 00.00.02\nAlex: hi\n\n2\nAlex: bye"

	tallies := Aggregate(transcript, "")

	assert.Equal(t, Tally{TranscriptLines: 2}, tallies["Alex"])
	assert.Len(t, tallies, 1)
}

func TestAggregate_ExactMatchDoesNotMergeCase(t *testing.T) {
	transcript := "alex: hi\nAlex: hello"

	tallies := Aggregate(transcript, "")

	assert.Len(t, tallies, 2)
	assert.Equal(t, 1, tallies["alex"].TranscriptLines)
	assert.Equal(t, 1, tallies["Alex"].TranscriptLines)
}

func TestAggregate_Deterministic(t *testing.T) {
	transcript := "Alex: a\nJordan: b\nAlex: c"
	chat := "08:00 From Jordan to Everyone: d"

	first := Aggregate(transcript, chat)
	second := Aggregate(transcript, chat)

	assert.Equal(t, first, second)
}

func TestAggregateWith_FoldMatcherMergesVariants(t *testing.T) {
	transcript := "jordan li: hi\nJordan Li: hello"
	chat := "08:00 From Jordan Li. to Everyone: hey"

	tallies := AggregateWith(transcript, chat, FoldMatch())

	assert.Len(t, tallies, 1)
	for _, tally := range tallies {
		assert.Equal(t, Tally{TranscriptLines: 2, ChatCount: 1}, tally)
	}
}

func TestAggregateWith_StrictRosterDropsUnknownNames(t *testing.T) {
	transcript := "Alex Chen: hi\nRandom Visitor: hello"
	chat := "08:00 From alex chen to Everyone: hey"

	matcher := RosterMatch([]string{"Alex Chen", "Priya Patel"}, true)
	tallies := AggregateWith(transcript, chat, matcher)

	assert.Len(t, tallies, 1)
	assert.Equal(t, Tally{TranscriptLines: 1, ChatCount: 1}, tallies["Alex Chen"])
}

func TestAggregateWith_LenientRosterKeepsUnknownNames(t *testing.T) {
	transcript := "Random Visitor: hello"

	matcher := RosterMatch([]string{"Alex Chen"}, false)
	tallies := AggregateWith(transcript, "", matcher)

	assert.Equal(t, Tally{TranscriptLines: 1}, tallies["Random Visitor"])
}

func TestAggregateWith_NilMatcherFallsBackToExact(t *testing.T) {
	tallies := AggregateWith("Alex: hi", "", nil)
	assert.Equal(t, Tally{TranscriptLines: 1}, tallies["Alex"])
}
