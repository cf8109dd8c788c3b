package discover

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"go.uber.org/zap"
)

func writeTestFile(t *testing.T, path string, content string) {
	t.Helper()
	if directoryError := os.MkdirAll(filepath.Dir(path), 0o755); directoryError != nil {
		t.Fatalf("creating directory for %s: %v", path, directoryError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		t.Fatalf("writing %s: %v", path, writeError)
	}
}

func sortedCopy(values []string) []string {
	copied := append([]string{}, values...)
	sort.Strings(copied)
	return copied
}

func TestDiscoverFiltersByExtension(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "a.rs"), "fn main() {}")
	writeTestFile(t, filepath.Join(rootDirectory, "b.py"), "print()")
	writeTestFile(t, filepath.Join(rootDirectory, "c.rs"), "mod c;")

	engine := NewEngine(zap.NewNop().Sugar())
	result, discoveryError := engine.Discover(Config{Root: rootDirectory, Extensions: []string{"rs"}})
	if discoveryError != nil {
		t.Fatalf("Discover returned error: %v", discoveryError)
	}

	wantMatches := sortedCopy([]string{
		filepath.Join(rootDirectory, "a.rs"),
		filepath.Join(rootDirectory, "c.rs"),
	})
	gotMatches := sortedCopy(result.Matches)
	if len(gotMatches) != len(wantMatches) {
		t.Fatalf("Matches = %v, want %v", gotMatches, wantMatches)
	}
	for matchIndex := range wantMatches {
		if gotMatches[matchIndex] != wantMatches[matchIndex] {
			t.Fatalf("Matches = %v, want %v", gotMatches, wantMatches)
		}
	}
}

func TestDiscoverAcceptsAllWithEmptyExtensionList(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "a.rs"), "x")
	writeTestFile(t, filepath.Join(rootDirectory, "Makefile"), "all:")

	engine := NewEngine(zap.NewNop().Sugar())
	result, discoveryError := engine.Discover(Config{Root: rootDirectory})
	if discoveryError != nil {
		t.Fatalf("Discover returned error: %v", discoveryError)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("Matches has %d entries, want 2: %v", len(result.Matches), result.Matches)
	}
}

func TestDiscoverAcceptsDottedExtensionEntries(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "main.go"), "package main")

	engine := NewEngine(zap.NewNop().Sugar())
	result, discoveryError := engine.Discover(Config{Root: rootDirectory, Extensions: []string{".go"}})
	if discoveryError != nil {
		t.Fatalf("Discover returned error: %v", discoveryError)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("Matches = %v, want exactly main.go", result.Matches)
	}
}

func TestDiscoverPrunesExcludedSubtrees(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "src", "main.rs"), "fn main() {}")
	writeTestFile(t, filepath.Join(rootDirectory, "target", "debug", "out.rs"), "artifact")
	writeTestFile(t, filepath.Join(rootDirectory, ".git", "config.rs"), "vcs")

	engine := NewEngine(zap.NewNop().Sugar())
	result, discoveryError := engine.Discover(Config{
		Root:              rootDirectory,
		Extensions:        []string{"rs"},
		ExcludeSubstrings: []string{"target"},
		VCSDirectoryName:  ".git",
	})
	if discoveryError != nil {
		t.Fatalf("Discover returned error: %v", discoveryError)
	}

	if len(result.Matches) != 1 || result.Matches[0] != filepath.Join(rootDirectory, "src", "main.rs") {
		t.Fatalf("Matches = %v, want only src/main.rs", result.Matches)
	}
	if _, present := result.FileMap[filepath.Join(rootDirectory, "target")]; present {
		t.Error("pruned subtree must not appear in the file map")
	}
	if _, present := result.FileMap[filepath.Join(rootDirectory, ".git")]; present {
		t.Error("the version-control directory must not appear in the file map")
	}
}

func TestDiscoverAppliesIgnoreFile(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, ".gitignore"), "*.log\n")
	writeTestFile(t, filepath.Join(rootDirectory, "keep.rs"), "x")
	writeTestFile(t, filepath.Join(rootDirectory, "noise.log"), "y")

	engine := NewEngine(zap.NewNop().Sugar())
	result, discoveryError := engine.Discover(Config{Root: rootDirectory, UseIgnoreFile: true})
	if discoveryError != nil {
		t.Fatalf("Discover returned error: %v", discoveryError)
	}

	for _, matchedPath := range result.Matches {
		if filepath.Base(matchedPath) == "noise.log" {
			t.Fatal("ignored file leaked into the matches")
		}
	}
	for _, mappedFiles := range result.FileMap {
		for _, mappedPath := range mappedFiles {
			if filepath.Base(mappedPath) == "noise.log" {
				t.Fatal("ignored file leaked into the file map")
			}
		}
	}
}

func TestDiscoverFileMapGroupsAllRegularFiles(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "src", "main.rs"), "x")
	writeTestFile(t, filepath.Join(rootDirectory, "src", "notes.md"), "y")
	if directoryError := os.MkdirAll(filepath.Join(rootDirectory, "empty"), 0o755); directoryError != nil {
		t.Fatalf("creating empty directory: %v", directoryError)
	}

	engine := NewEngine(zap.NewNop().Sugar())
	result, discoveryError := engine.Discover(Config{Root: rootDirectory, Extensions: []string{"rs"}})
	if discoveryError != nil {
		t.Fatalf("Discover returned error: %v", discoveryError)
	}

	sourceFiles := result.FileMap[filepath.Join(rootDirectory, "src")]
	if len(sourceFiles) != 2 {
		t.Fatalf("file map for src has %d entries, want 2 (extension filter must not apply): %v",
			len(sourceFiles), sourceFiles)
	}
	if _, present := result.FileMap[filepath.Join(rootDirectory, "empty")]; !present {
		t.Error("empty directories must still appear in the file map")
	}
}

func TestDiscoverMissingRootReturnsError(t *testing.T) {
	engine := NewEngine(zap.NewNop().Sugar())
	_, discoveryError := engine.Discover(Config{Root: filepath.Join(t.TempDir(), "does-not-exist")})
	if discoveryError == nil {
		t.Fatal("expected an error for a missing root")
	}
	var typedError *Error
	if !errors.As(discoveryError, &typedError) {
		t.Fatalf("error %v is not a discovery Error", discoveryError)
	}
}

func TestDiscoverRejectsFileRoot(t *testing.T) {
	rootDirectory := t.TempDir()
	filePath := filepath.Join(rootDirectory, "plain.txt")
	writeTestFile(t, filePath, "x")

	engine := NewEngine(zap.NewNop().Sugar())
	_, discoveryError := engine.Discover(Config{Root: filePath})
	if discoveryError == nil {
		t.Fatal("expected an error when the root is a plain file")
	}
}
