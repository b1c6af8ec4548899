// Package engage extracts per-participant engagement tallies from Zoom-style
// transcript and chat log text.
package engage

import "strings"

// Chat attribution markers. A chat export line looks like:
//
//	09:12:44 From Jordan Li to Everyone : does this count?
const (
	chatFromMarker = "From "
	chatToMarker   = " to "
)

// ClassifyTranscriptLine reports whether a transcript line attributes text to
// a speaker, and if so returns the speaker's display name.
//
// The line is split on its FIRST colon; the trimmed prefix is the candidate
// name. Lines without a colon (cue numbers, blank lines, "-->" timestamp
// lines) contribute nothing. No validation is applied to the candidate, so a
// timestamp that happens to contain a colon produces a degenerate hit; callers
// inherit that limitation deliberately.
func ClassifyTranscriptLine(line string) (string, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[:idx]), true
}

// ClassifyChatLine reports whether a chat log line attributes a message to a
// sender, and if so returns the sender's display name.
//
// The sender is the trimmed text strictly between the first "From " and the
// first " to " in the line. Both markers must be present and "From " must
// precede " to "; the index comparison guards lines where " to " shows up
// earlier for an unrelated reason. An empty name (a "From  to" collapse) is
// still a hit.
func ClassifyChatLine(line string) (string, bool) {
	fromIdx := strings.Index(line, chatFromMarker)
	if fromIdx < 0 {
		return "", false
	}
	toIdx := strings.Index(line, chatToMarker)
	if toIdx < 0 || toIdx < fromIdx+len(chatFromMarker) {
		return "", false
	}
	return strings.TrimSpace(line[fromIdx+len(chatFromMarker) : toIdx]), true
}
