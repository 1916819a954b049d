package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSplit parses per-year first-half overrides written as "1:5,2:5".
// Years and counts must be positive.
// Empty entries are skipped; a later entry for the same year wins.
func ParseSplit(raw string) (map[int]int, error) {
	result := make(map[int]int)
	for _, chunk := range strings.Split(raw, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		yearRaw, countRaw, ok := strings.Cut(chunk, ":")
		if !ok {
			return nil, fmt.Errorf("invalid split entry %q, expected entries like '1:5,2:5'", chunk)
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearRaw))
		if err != nil || year < 1 {
			return nil, fmt.Errorf("invalid split year in %q", chunk)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countRaw))
		if err != nil || count < 1 {
			return nil, fmt.Errorf("invalid split count in %q", chunk)
		}
		result[year] = count
	}
	return result, nil
}
