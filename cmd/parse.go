package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hackdook/engage/config"
	"github.com/hackdook/engage/pkg/engage"
)

// Parse command flags
var (
	parseTranscript string
	parseChat       string
	parseRoster     string
	parseMatcher    string
	parseStrict     bool
	parseOutput     string
)

// parseResult is the JSON output shape of the parse command.
type parseResult struct {
	Participants []parseParticipant `json:"participants"`
}

type parseParticipant struct {
	Name            string `json:"name"`
	TranscriptLines int    `json:"transcript_lines"`
	ChatCount       int    `json:"chat_count"`
}

// NewParseCommand creates the parse command for offline aggregation.
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Aggregate local transcript and chat files without a database",
		Long: `Aggregate local transcript and chat files without a database.

Reads a transcript file and a chat log from disk, tallies per-participant
engagement (transcript lines spoken, chat messages sent), and prints the
result. Useful for checking files before uploading them to the server.

At least one of --transcript and --chat is required. An optional roster file
(one name per line, # comments allowed) maps name variants onto canonical
roster identities; with --strict, names absent from the roster are dropped.

Examples:
  # Tally a transcript and chat log
  engage parse --transcript week3.vtt --chat week3-chat.txt

  # JSON output for scripting
  engage parse --transcript week3.vtt --chat week3-chat.txt --output json

  # Fold case and punctuation when joining names
  engage parse --transcript week3.vtt --chat week3-chat.txt --matcher fold

  # Keep only rostered participants
  engage parse --transcript week3.vtt --chat week3-chat.txt \
    --roster roster.txt --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd)
		},
	}

	cmd.Flags().StringVarP(&parseTranscript, "transcript", "t", "", "Path to the transcript file")
	cmd.Flags().StringVarP(&parseChat, "chat", "c", "", "Path to the chat log file")
	cmd.Flags().StringVarP(&parseRoster, "roster", "r", "", "Path to a roster file (one name per line)")
	cmd.Flags().StringVar(&parseMatcher, "matcher", string(config.MatcherExact), "Name matching policy: exact or fold")
	cmd.Flags().BoolVar(&parseStrict, "strict", false, "Drop names that are not on the roster")
	cmd.Flags().StringVarP(&parseOutput, "output", "o", "text", "Output format: text or json")

	return cmd
}

func runParse(cmd *cobra.Command) error {
	if parseTranscript == "" && parseChat == "" {
		return fmt.Errorf("at least one of --transcript and --chat is required")
	}
	if parseOutput != "text" && parseOutput != "json" {
		return fmt.Errorf("invalid output format %q (must be text or json)", parseOutput)
	}

	transcriptText, err := readOptionalFile(parseTranscript)
	if err != nil {
		return err
	}
	chatText, err := readOptionalFile(parseChat)
	if err != nil {
		return err
	}

	matcher, err := parseCommandMatcher()
	if err != nil {
		return err
	}

	tallies := engage.AggregateWith(transcriptText, chatText, matcher)

	names := make([]string, 0, len(tallies))
	for name := range tallies {
		names = append(names, name)
	}
	sort.Strings(names)

	participants := make([]parseParticipant, 0, len(names))
	for _, name := range names {
		participants = append(participants, parseParticipant{
			Name:            name,
			TranscriptLines: tallies[name].TranscriptLines,
			ChatCount:       tallies[name].ChatCount,
		})
	}

	out := cmd.OutOrStdout()

	if parseOutput == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parseResult{Participants: participants})
	}

	if len(participants) == 0 {
		fmt.Fprintln(out, "No participants found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTRANSCRIPT LINES\tCHAT MESSAGES")
	for _, p := range participants {
		fmt.Fprintf(w, "%s\t%d\t%d\n", p.Name, p.TranscriptLines, p.ChatCount)
	}
	return w.Flush()
}

// parseCommandMatcher builds the matcher from the parse flags. A roster file
// takes precedence over the --matcher policy.
func parseCommandMatcher() (engage.NameMatcher, error) {
	if parseRoster != "" {
		f, err := os.Open(parseRoster)
		if err != nil {
			return nil, fmt.Errorf("opening roster: %w", err)
		}
		defer f.Close()

		roster, err := engage.ParseRoster(f)
		if err != nil {
			return nil, fmt.Errorf("parsing roster: %w", err)
		}
		if len(roster) == 0 {
			return nil, fmt.Errorf("roster %s is empty", parseRoster)
		}
		return engage.RosterMatch(roster, parseStrict), nil
	}

	switch config.MatcherPolicy(parseMatcher) {
	case config.MatcherExact:
		return engage.ExactMatch(), nil
	case config.MatcherFold:
		return engage.FoldMatch(), nil
	default:
		return nil, fmt.Errorf("invalid matcher %q (must be exact or fold)", parseMatcher)
	}
}

// readOptionalFile reads a file when a path is given, otherwise returns "".
func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
