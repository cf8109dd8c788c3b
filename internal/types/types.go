// Package types defines the cross-package data structures of richprompt.
package types

// FileContext pairs a selected file path with its loaded content.
type FileContext struct {
	Path    string
	Content string
}

// ContextOutput is the assembled context document before formatting.
type ContextOutput struct {
	FileMap          string
	FileContents     string
	UserInstructions string
	TokenCount       int
}

// ContentReader loads the content of one file. Implementations recover from
// unreadable files by returning an error; callers decide whether that skips
// the file or aborts.
type ContentReader func(path string) (string, error)
