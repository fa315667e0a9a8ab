package cmsl

import (
	"bufio"
	"regexp"
	"strings"
)

// idPattern matches softpaq tokens embedded in free text, e.g.
// "sp107513" inside a simulate report line.
var idPattern = regexp.MustCompile(`(?i)\bsp[0-9]{3,7}\b`)

// idExactPattern matches a complete softpaq identifier.
var idExactPattern = regexp.MustCompile(`^(?i:sp)[0-9]{3,7}$`)

// ScrapeIDs scans a free-text client report line by line for softpaq
// tokens, collecting them lowercased in encounter order without
// duplicates. This is the documented fallback for clients without a
// structured listing; the structured path never goes through here.
func ScrapeIDs(report string) []string {
	seen := make(map[string]bool)
	ids := []string{}

	scanner := bufio.NewScanner(strings.NewReader(report))
	for scanner.Scan() {
		for _, match := range idPattern.FindAllString(scanner.Text(), -1) {
			id := strings.ToLower(match)
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids
}
