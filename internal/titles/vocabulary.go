package titles

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// LoadVocabulary reads the canonical title list, one title per line, skipping
// blanks and # comments. The result is deduplicated and sorted so similarity
// ties resolve to the lexicographically first title.
func LoadVocabulary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	var titles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		titles = append(titles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("vocabulary %s is empty", path)
	}
	sort.Strings(titles)
	return titles, nil
}
