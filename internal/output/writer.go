// Package output writes the assembled context to its configured destination.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

const (
	clipboardNoticeText = "\n📋 Content copied to clipboard!"
	previewHeaderText   = "\nPreview of copied content:\n"
	previewRuneLimit    = 200
	previewEllipsis     = "..."
)

// Writer delivers the formatted context document to one destination.
type Writer interface {
	Write(content string) error
}

// FileWriter writes the document to a file path.
type FileWriter struct {
	Path   string
	logger *zap.SugaredLogger
}

// Write stores the content at the configured path.
func (writer FileWriter) Write(content string) error {
	writer.logger.Debugf("writing output to file %s", writer.Path)
	if writeError := os.WriteFile(writer.Path, []byte(content), 0o644); writeError != nil {
		return fmt.Errorf("writing output to %s: %w", writer.Path, writeError)
	}
	writer.logger.Infof("output written to file %s", writer.Path)
	return nil
}

// ConsoleWriter writes the document to the provided stream.
type ConsoleWriter struct {
	Target io.Writer
	logger *zap.SugaredLogger
}

// Write prints the content followed by a newline.
func (writer ConsoleWriter) Write(content string) error {
	writer.logger.Debug("writing output to console")
	if _, writeError := fmt.Fprintln(writer.Target, content); writeError != nil {
		return fmt.Errorf("writing output to console: %w", writeError)
	}
	return nil
}

// ClipboardWriter places the document on the system clipboard. Any clipboard
// failure is a hard error.
type ClipboardWriter struct {
	logger *zap.SugaredLogger
}

// Write copies the content to the clipboard and prints a colored
// confirmation with a short preview when attached to a terminal.
func (writer ClipboardWriter) Write(content string) error {
	writer.logger.Debug("writing output to clipboard")
	if clipboardError := clipboard.WriteAll(content); clipboardError != nil {
		writer.logger.Warnf("failed to copy to clipboard: %v", clipboardError)
		return fmt.Errorf("failed to copy to clipboard: %w", clipboardError)
	}
	writer.logger.Infof("output copied to clipboard (size: %d bytes)", len(content))

	if isatty.IsTerminal(os.Stdout.Fd()) {
		color.Green(clipboardNoticeText)
		fmt.Print(previewHeaderText, "\n")
		fmt.Println(previewOf(content))
	}
	return nil
}

// NewWriter selects the destination: the clipboard wins over a file path, and
// an empty path falls back to the console.
func NewWriter(outputPath string, useClipboard bool, logger *zap.SugaredLogger) Writer {
	if useClipboard {
		return ClipboardWriter{logger: logger}
	}
	if outputPath != "" {
		return FileWriter{Path: outputPath, logger: logger}
	}
	return ConsoleWriter{Target: os.Stdout, logger: logger}
}

// previewOf truncates content to a rune-safe preview.
func previewOf(content string) string {
	contentRunes := []rune(content)
	if len(contentRunes) <= previewRuneLimit {
		return content
	}
	return string(contentRunes[:previewRuneLimit]) + previewEllipsis
}
