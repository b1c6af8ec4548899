package engage

import (
	"bufio"
	"io"
	"strings"
)

// ParseRoster reads a roster file with one participant name per line.
// Blank lines and lines starting with '#' are skipped; names are trimmed.
// Duplicate names are collapsed, first occurrence wins.
func ParseRoster(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)

	names := make([]string, 0)
	seen := make(map[string]bool)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		names = append(names, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return names, nil
}
