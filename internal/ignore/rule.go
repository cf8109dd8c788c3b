// Package ignore evaluates gitignore-style exclusion rules against
// slash-separated relative paths.
package ignore

import "strings"

const (
	negationMarker       = "!"
	directoryMarker      = "/"
	wildcardMarker       = "*"
	pathSegmentSeparator = "/"
)

// Rule is a single classified ignore pattern. The markers that drive
// classification (leading "!", trailing "/", leading "/") are consumed during
// parsing and are not part of the matching text.
type Rule struct {
	Raw           string
	Negated       bool
	DirectoryOnly bool
	RootAnchored  bool
	cleanPattern  string
}

// ParseRule classifies a raw ignore-file line into a Rule.
func ParseRule(rawLine string) Rule {
	rule := Rule{Raw: rawLine}
	patternText := rawLine
	if strings.HasPrefix(patternText, negationMarker) {
		rule.Negated = true
		patternText = patternText[len(negationMarker):]
	}
	if strings.HasSuffix(patternText, directoryMarker) {
		rule.DirectoryOnly = true
		patternText = strings.TrimSuffix(patternText, directoryMarker)
	}
	if strings.HasPrefix(patternText, directoryMarker) {
		rule.RootAnchored = true
		patternText = strings.TrimPrefix(patternText, directoryMarker)
	}
	rule.cleanPattern = patternText
	return rule
}

// Matches reports whether the rule applies to the provided relative path.
// Directory-only rules never match plain files. Root-anchored rules are
// evaluated as plain prefixes without wildcard handling. Wildcard rules are
// decided entirely by their shape; only non-wildcard rules fall back to a
// substring check.
func (rule Rule) Matches(relativePath string, isDirectory bool) bool {
	if rule.DirectoryOnly && !isDirectory {
		return false
	}

	cleanPattern := rule.cleanPattern

	if rule.RootAnchored {
		return relativePath == cleanPattern ||
			strings.HasPrefix(relativePath, cleanPattern+pathSegmentSeparator)
	}

	if strings.Contains(cleanPattern, wildcardMarker) {
		return matchesWildcardPattern(relativePath, cleanPattern)
	}

	if relativePath == cleanPattern ||
		strings.HasPrefix(relativePath, cleanPattern+pathSegmentSeparator) ||
		strings.HasSuffix(relativePath, pathSegmentSeparator+cleanPattern) {
		return true
	}

	return strings.Contains(relativePath, cleanPattern)
}

// matchesWildcardPattern evaluates the four wildcard shapes in precedence
// order: both-ends, leading, trailing, then interior wildcards.
func matchesWildcardPattern(relativePath string, cleanPattern string) bool {
	hasLeadingWildcard := strings.HasPrefix(cleanPattern, wildcardMarker)
	hasTrailingWildcard := strings.HasSuffix(cleanPattern, wildcardMarker)

	switch {
	case hasLeadingWildcard && hasTrailingWildcard:
		innerText := strings.Trim(cleanPattern, wildcardMarker)
		return strings.Contains(relativePath, innerText)
	case hasLeadingWildcard:
		suffixText := strings.TrimLeft(cleanPattern, wildcardMarker)
		return strings.HasSuffix(relativePath, suffixText)
	case hasTrailingWildcard:
		prefixText := strings.TrimRight(cleanPattern, wildcardMarker)
		return strings.HasPrefix(relativePath, prefixText)
	default:
		fragments := strings.Split(cleanPattern, wildcardMarker)
		if !strings.HasPrefix(relativePath, fragments[0]) {
			return false
		}
		if !strings.HasSuffix(relativePath, fragments[len(fragments)-1]) {
			return false
		}
		for _, interiorFragment := range fragments[1 : len(fragments)-1] {
			if !strings.Contains(relativePath, interiorFragment) {
				return false
			}
		}
		return true
	}
}
