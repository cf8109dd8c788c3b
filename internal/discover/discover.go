// Package discover walks a directory subtree and produces the candidate file
// paths for selection together with a structural directory map.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/richprompt/richprompt/internal/ignore"
)

const extensionSeparator = "."

// Config describes one discovery run. It is constructed once per invocation
// and never mutated afterwards.
type Config struct {
	// Root is the directory the walk starts from.
	Root string
	// Extensions is the allow-list of file extensions without a leading dot.
	// An empty list accepts every file.
	Extensions []string
	// ExcludeSubstrings prunes any entry whose full path contains one of
	// these literal substrings.
	ExcludeSubstrings []string
	// VCSDirectoryName names the version-control directory to prune.
	VCSDirectoryName string
	// UseIgnoreFile enables loading and applying the root's ignore file.
	UseIgnoreFile bool
}

// Error is a discovery-level failure: the root is missing or not a directory.
type Error struct {
	Root   string
	Reason error
}

func (discoveryError *Error) Error() string {
	return fmt.Sprintf("discovery failed for %s: %v", discoveryError.Root, discoveryError.Reason)
}

func (discoveryError *Error) Unwrap() error {
	return discoveryError.Reason
}

// Result carries the matched file paths in visitation order and the
// directory map grouping every visited regular file under its parent.
// Matches is correct as a set; its order is not guaranteed.
type Result struct {
	Matches []string
	FileMap map[string][]string
}

// Engine performs filtered recursive discovery.
type Engine struct {
	logger *zap.SugaredLogger
}

// NewEngine constructs an Engine logging through the provided logger.
func NewEngine(logger *zap.SugaredLogger) *Engine {
	return &Engine{logger: logger}
}

// Discover walks config.Root and returns matching files plus the file map.
// Pruned subtrees (literal excludes, the VCS directory, ignore-file matches)
// appear in neither. Per-entry traversal errors are skipped; only a missing
// or unreadable root aborts the walk.
func (engine *Engine) Discover(config Config) (*Result, error) {
	rootInformation, rootStatError := os.Stat(config.Root)
	if rootStatError != nil {
		return nil, &Error{Root: config.Root, Reason: rootStatError}
	}
	if !rootInformation.IsDir() {
		return nil, &Error{Root: config.Root, Reason: fmt.Errorf("not a directory")}
	}

	excludeSubstrings := append([]string{}, config.ExcludeSubstrings...)
	if config.VCSDirectoryName != "" {
		excludeSubstrings = append(excludeSubstrings, config.VCSDirectoryName)
	}

	var ignoreSet *ignore.Set
	if config.UseIgnoreFile {
		loadedSet, loadError := ignore.LoadSet(config.Root, engine.logger)
		if loadError != nil {
			return nil, &Error{Root: config.Root, Reason: loadError}
		}
		ignoreSet = loadedSet
	}

	result := &Result{FileMap: make(map[string][]string)}

	walkError := filepath.WalkDir(config.Root, func(entryPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			engine.logger.Debugf("skipping unreadable entry %s: %v", entryPath, accessError)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		isDirectory := directoryEntry.IsDir()

		if entryPath != config.Root && containsAnySubstring(entryPath, excludeSubstrings) {
			if isDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		if ignoreSet != nil && entryPath != config.Root &&
			ignoreSet.ShouldIgnore(entryPath, config.Root, isDirectory) {
			engine.logger.Debugf("ignore file excludes %s", entryPath)
			if isDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		if isDirectory {
			if _, present := result.FileMap[entryPath]; !present {
				result.FileMap[entryPath] = nil
			}
			return nil
		}
		if directoryEntry.Type()&fs.ModeSymlink != 0 || !directoryEntry.Type().IsRegular() {
			return nil
		}

		parentDirectory := filepath.Dir(entryPath)
		result.FileMap[parentDirectory] = append(result.FileMap[parentDirectory], entryPath)

		if matchesExtension(entryPath, config.Extensions) {
			engine.logger.Debugf("found matching file %s", entryPath)
			result.Matches = append(result.Matches, entryPath)
		}
		return nil
	})
	if walkError != nil {
		return nil, &Error{Root: config.Root, Reason: walkError}
	}

	engine.logger.Infof("found %d matching files under %s", len(result.Matches), config.Root)
	return result, nil
}

// matchesExtension reports whether the file's trailing extension component is
// allowed. An empty allow-list accepts everything.
func matchesExtension(entryPath string, allowedExtensions []string) bool {
	if len(allowedExtensions) == 0 {
		return true
	}
	baseName := filepath.Base(entryPath)
	lastDotIndex := strings.LastIndex(baseName, extensionSeparator)
	if lastDotIndex < 0 || lastDotIndex == len(baseName)-1 {
		return false
	}
	fileExtension := baseName[lastDotIndex+1:]
	for _, allowedExtension := range allowedExtensions {
		if strings.TrimPrefix(allowedExtension, extensionSeparator) == fileExtension {
			return true
		}
	}
	return false
}

func containsAnySubstring(candidate string, substrings []string) bool {
	for _, substring := range substrings {
		if substring != "" && strings.Contains(candidate, substring) {
			return true
		}
	}
	return false
}
