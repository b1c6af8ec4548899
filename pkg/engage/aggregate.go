package engage

import "strings"

// Tally holds the engagement counts for a single participant.
type Tally struct {
	TranscriptLines int `json:"transcript_lines"`
	ChatCount       int `json:"chat_count"`
}

// Aggregate tallies engagement from the full text of a transcript file and a
// chat log file using the default exact-match name policy. The key set of the
// returned map is the union of names seen in either source; a name seen only
// in chat has TranscriptLines == 0 and vice versa.
func Aggregate(transcriptText, chatText string) map[string]Tally {
	return AggregateWith(transcriptText, chatText, ExactMatch())
}

// AggregateWith tallies engagement using the supplied name-matching policy.
//
// Each input is split on newline boundaries and every line is run through the
// corresponding classifier; each hit increments one counter. Inputs are never
// trimmed as a whole, only extracted names are. The result is deterministic
// for identical inputs.
func AggregateWith(transcriptText, chatText string, matcher NameMatcher) map[string]Tally {
	if matcher == nil {
		matcher = ExactMatch()
	}

	tallies := make(map[string]Tally)

	for _, line := range strings.Split(transcriptText, "\n") {
		name, ok := ClassifyTranscriptLine(line)
		if !ok {
			continue
		}
		key, keep := matcher.Canonical(name)
		if !keep {
			continue
		}
		t := tallies[key]
		t.TranscriptLines++
		tallies[key] = t
	}

	for _, line := range strings.Split(chatText, "\n") {
		name, ok := ClassifyChatLine(line)
		if !ok {
			continue
		}
		key, keep := matcher.Canonical(name)
		if !keep {
			continue
		}
		t := tallies[key]
		t.ChatCount++
		tallies[key] = t
	}

	return tallies
}
