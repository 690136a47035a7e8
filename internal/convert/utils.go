// File path: internal/convert/utils.go
package convert

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// kebabCase normalizes a function name into a URL-safe route segment.
func kebabCase(name string) string {
	trimmed := strings.TrimSpace(name)

	var b strings.Builder
	prevDash := false
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && !prevDash && b.Len() > 0 {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}

	result := strings.Trim(b.String(), "-")
	if result == "" {
		sum := sha1.Sum([]byte(name))
		result = fmt.Sprintf("fn-%x", sum[:4])
	}
	return result
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortedUniqueStrings(values []string) []string {
	out := uniqueStrings(values)
	sort.Strings(out)
	return out
}

func indentLines(text string, prefix string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, prefix+line)
	}
	return out
}
