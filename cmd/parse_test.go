package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetParseFlags restores the package flag vars between executions.
func resetParseFlags() {
	parseTranscript = ""
	parseChat = ""
	parseRoster = ""
	parseMatcher = "exact"
	parseStrict = false
	parseOutput = "text"
}

// runParseCommand executes the parse command with args and returns stdout.
func runParseCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetParseFlags()

	cmd := NewParseCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseCommand_Structure(t *testing.T) {
	cmd := NewParseCommand()

	assert.Equal(t, "parse", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, flag := range []string{"transcript", "chat", "roster", "matcher", "strict", "output"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "parse command should have --%s flag", flag)
	}
}

func TestParseCommand_TextOutput(t *testing.T) {
	transcript := writeTempFile(t, "transcript.vtt",
		"Alex: hello everyone\nJordan: hi\nAlex: let's get started\n")
	chat := writeTempFile(t, "chat.txt",
		"From Alex to Everyone: link incoming\nFrom Jordan to Everyone: thanks\n")

	out, err := runParseCommand(t, "--transcript", transcript, "--chat", chat)
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Alex")
	assert.Contains(t, out, "Jordan")
}

func TestParseCommand_JSONOutput(t *testing.T) {
	transcript := writeTempFile(t, "transcript.vtt", "Alex: hello\nAlex: again\n")
	chat := writeTempFile(t, "chat.txt", "From Jordan to Everyone: hi\n")

	out, err := runParseCommand(t, "--transcript", transcript, "--chat", chat, "--output", "json")
	require.NoError(t, err)

	var result parseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Participants, 2)

	assert.Equal(t, "Alex", result.Participants[0].Name)
	assert.Equal(t, 2, result.Participants[0].TranscriptLines)
	assert.Equal(t, 0, result.Participants[0].ChatCount)
	assert.Equal(t, "Jordan", result.Participants[1].Name)
	assert.Equal(t, 0, result.Participants[1].TranscriptLines)
	assert.Equal(t, 1, result.Participants[1].ChatCount)
}

func TestParseCommand_TranscriptOnly(t *testing.T) {
	transcript := writeTempFile(t, "transcript.vtt", "Alex: hello\n")

	out, err := runParseCommand(t, "--transcript", transcript, "--output", "json")
	require.NoError(t, err)

	var result parseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Participants, 1)
	assert.Equal(t, 1, result.Participants[0].TranscriptLines)
	assert.Equal(t, 0, result.Participants[0].ChatCount)
}

func TestParseCommand_RosterStrict(t *testing.T) {
	transcript := writeTempFile(t, "transcript.vtt", "alex smith: hi\nIntruder: hello\n")
	chat := writeTempFile(t, "chat.txt", "From ALEX SMITH to Everyone: yo\n")
	roster := writeTempFile(t, "roster.txt", "# week 3 roster\nAlex Smith\n")

	out, err := runParseCommand(t,
		"--transcript", transcript, "--chat", chat,
		"--roster", roster, "--strict", "--output", "json")
	require.NoError(t, err)

	var result parseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Participants, 1)
	assert.Equal(t, "Alex Smith", result.Participants[0].Name)
	assert.Equal(t, 1, result.Participants[0].TranscriptLines)
	assert.Equal(t, 1, result.Participants[0].ChatCount)
}

func TestParseCommand_FoldMatcher(t *testing.T) {
	transcript := writeTempFile(t, "transcript.vtt", "ALEX: hi\nalex: again\n")
	chat := writeTempFile(t, "chat.txt", "")

	out, err := runParseCommand(t, "--transcript", transcript, "--chat", chat,
		"--matcher", "fold", "--output", "json")
	require.NoError(t, err)

	var result parseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Participants, 1)
	assert.Equal(t, 2, result.Participants[0].TranscriptLines)
}

func TestParseCommand_Errors(t *testing.T) {
	t.Run("no input files", func(t *testing.T) {
		_, err := runParseCommand(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one of")
	})

	t.Run("missing transcript file", func(t *testing.T) {
		_, err := runParseCommand(t, "--transcript", "/nonexistent/file.vtt")
		require.Error(t, err)
	})

	t.Run("invalid matcher", func(t *testing.T) {
		transcript := writeTempFile(t, "t.vtt", "a: b\n")
		_, err := runParseCommand(t, "--transcript", transcript, "--matcher", "fuzzy")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid matcher")
	})

	t.Run("invalid output format", func(t *testing.T) {
		transcript := writeTempFile(t, "t.vtt", "a: b\n")
		_, err := runParseCommand(t, "--transcript", transcript, "--output", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid output format")
	})
}

func TestParseCommand_EmptyInputs(t *testing.T) {
	transcript := writeTempFile(t, "transcript.vtt", "")
	chat := writeTempFile(t, "chat.txt", "")

	out, err := runParseCommand(t, "--transcript", transcript, "--chat", chat)
	require.NoError(t, err)
	assert.Contains(t, out, "No participants found")
}
