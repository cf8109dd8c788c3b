package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	// GitIgnoreFileName is the name of the ignore file loaded from a root.
	GitIgnoreFileName = ".gitignore"
	commentPrefix     = "#"
)

// Set is an unordered collection of rules keyed by raw pattern text.
// Duplicate raw lines collapse. Iteration order is deliberately unspecified:
// a matching negated rule overrides every non-negated match for a path
// regardless of the order rules were declared in. This is a simplification
// of real gitignore semantics (last matching rule wins) and is kept on
// purpose; callers relying on order-sensitive ignore files should not.
type Set struct {
	rules map[string]Rule
}

// NewSet returns an empty rule set.
func NewSet() *Set {
	return &Set{rules: make(map[string]Rule)}
}

// Add parses rawLine and inserts the resulting rule, collapsing duplicates.
func (set *Set) Add(rawLine string) {
	set.rules[rawLine] = ParseRule(rawLine)
}

// Len returns the number of distinct rules.
func (set *Set) Len() int {
	return len(set.rules)
}

// ShouldIgnore reports whether the path, taken relative to root, is excluded
// by the set. An empty set never excludes anything.
func (set *Set) ShouldIgnore(path string, root string, isDirectory bool) bool {
	if set == nil || len(set.rules) == 0 {
		return false
	}

	relativePath := path
	if computedRelative, relativeError := filepath.Rel(root, path); relativeError == nil {
		relativePath = computedRelative
	}
	relativePath = filepath.ToSlash(relativePath)

	matchedNegated := false
	shouldIgnore := false

	for _, rule := range set.rules {
		if rule.Negated {
			if rule.Matches(relativePath, isDirectory) {
				matchedNegated = true
			}
			continue
		}
		if !matchedNegated && rule.Matches(relativePath, isDirectory) {
			shouldIgnore = true
		}
	}

	if matchedNegated {
		return false
	}
	return shouldIgnore
}

// LoadSet reads root/.gitignore into a rule set. A missing ignore file yields
// an empty set and no error; read failures are reported.
func LoadSet(rootDirectory string, logger *zap.SugaredLogger) (*Set, error) {
	set := NewSet()
	ignoreFilePath := filepath.Join(rootDirectory, GitIgnoreFileName)

	fileHandle, openError := os.Open(ignoreFilePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			if logger != nil {
				logger.Debugf("no %s file found at %s", GitIgnoreFileName, ignoreFilePath)
			}
			return set, nil
		}
		return nil, fmt.Errorf("opening %s: %w", ignoreFilePath, openError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && logger != nil {
			logger.Warnf("failed to close %s: %v", ignoreFilePath, closeError)
		}
	}()

	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if strings.HasPrefix(trimmedLine, negationMarker) && len(trimmedLine) > 1 {
			trimmedLine = negationMarker + strings.TrimSpace(trimmedLine[1:])
		}
		set.Add(trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("reading %s: %w", ignoreFilePath, scanError)
	}

	if logger != nil {
		logger.Infof("loaded %d patterns from %s", set.Len(), GitIgnoreFileName)
	}
	return set, nil
}
