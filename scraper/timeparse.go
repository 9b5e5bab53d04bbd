// api/scraper/timeparse.go
package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var minutesAgoPattern = regexp.MustCompile(`(\d+)\s*minutes?\s*ago`)

// ParseMinutesAgo extracts N from a "N minutes ago" label, matched
// case-insensitively anywhere in the string. Labels in any other phrasing
// ("2 hours ago", "just now") return ok=false: they are excluded from
// storage, not treated as errors.
func ParseMinutesAgo(label string) (int, bool) {
	m := minutesAgoPattern.FindStringSubmatch(strings.ToLower(label))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
