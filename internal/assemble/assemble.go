// Package assemble turns selected files and the discovery file map into the
// final context document.
package assemble

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/richprompt/richprompt/internal/tokenizer"
	"github.com/richprompt/richprompt/internal/types"
)

const (
	fileMapBranchPrefix = "├── "

	fileBlockFormat = "\nFile: %s\n```%s\n%s\n```\n"

	fileMapOpenTag          = "<file_map>\n"
	fileMapCloseTag         = "</file_map>\n\n\n"
	fileContentsOpenTag     = "<file_contents>"
	fileContentsCloseTag    = "</file_contents>"
	userInstructionsOpenTag = "\n\n<user_instructions>\n"
	userInstructionsClose   = "\n</user_instructions>"
)

// fileBlock is one rendered per-file section with its token estimate.
type fileBlock struct {
	text   string
	tokens int
}

// RenderFileMap renders the directory map as one line per directory followed
// by a branch line per contained file. Directories are emitted in sorted
// order so the map is stable across runs.
func RenderFileMap(fileMap map[string][]string) string {
	directories := make([]string, 0, len(fileMap))
	for directory := range fileMap {
		directories = append(directories, directory)
	}
	sort.Strings(directories)

	var builder strings.Builder
	for _, directory := range directories {
		builder.WriteString(directory)
		builder.WriteString("\n")
		for _, filePath := range fileMap[directory] {
			builder.WriteString(fileMapBranchPrefix)
			builder.WriteString(filePath)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// BuildContextOutput assembles the per-file content blocks, the file map, and
// the optional user prompt into a ContextOutput with a total token estimate.
// Blocks are produced and consumed through a streaming pipeline; the output
// preserves the order files were selected in.
func BuildContextOutput(
	files []types.FileContext,
	fileMapText string,
	userPrompt string,
	counter tokenizer.Counter,
	logger *zap.SugaredLogger,
) (types.ContextOutput, error) {
	logger.Debugf("building context output from %d files", len(files))

	var contentsBuilder strings.Builder
	totalTokens := 0

	group, groupContext := errgroup.WithContext(context.Background())
	blocks := make(chan fileBlock)

	group.Go(func() error {
		defer close(blocks)
		for _, file := range files {
			blockTokens, countError := counter.CountString(file.Content)
			if countError != nil {
				return fmt.Errorf("counting tokens for %s: %w", file.Path, countError)
			}
			extension := strings.TrimPrefix(filepath.Ext(file.Path), ".")
			block := fileBlock{
				text:   fmt.Sprintf(fileBlockFormat, file.Path, extension, file.Content),
				tokens: blockTokens,
			}
			select {
			case <-groupContext.Done():
				return groupContext.Err()
			case blocks <- block:
			}
		}
		return nil
	})

	group.Go(func() error {
		for {
			select {
			case <-groupContext.Done():
				return groupContext.Err()
			case block, open := <-blocks:
				if !open {
					return nil
				}
				contentsBuilder.WriteString(block.text)
				totalTokens += block.tokens
			}
		}
	})

	if waitError := group.Wait(); waitError != nil {
		return types.ContextOutput{}, waitError
	}

	mapTokens, mapCountError := counter.CountString(fileMapText)
	if mapCountError != nil {
		return types.ContextOutput{}, fmt.Errorf("counting file map tokens: %w", mapCountError)
	}
	totalTokens += mapTokens
	logger.Debugf("file map has %d tokens", mapTokens)

	if userPrompt != "" {
		promptTokens, promptCountError := counter.CountString(userPrompt)
		if promptCountError != nil {
			return types.ContextOutput{}, fmt.Errorf("counting prompt tokens: %w", promptCountError)
		}
		totalTokens += promptTokens
		logger.Info("including user prompt in context")
	}

	return types.ContextOutput{
		FileMap:          fileMapText,
		FileContents:     contentsBuilder.String(),
		UserInstructions: userPrompt,
		TokenCount:       totalTokens,
	}, nil
}

// Format renders the context output as the final tagged document.
func Format(output types.ContextOutput) string {
	var builder strings.Builder

	builder.WriteString(fileMapOpenTag)
	builder.WriteString(output.FileMap)
	builder.WriteString(fileMapCloseTag)

	builder.WriteString(fileContentsOpenTag)
	builder.WriteString(output.FileContents)
	builder.WriteString(fileContentsCloseTag)

	if output.UserInstructions != "" {
		builder.WriteString(userInstructionsOpenTag)
		builder.WriteString(output.UserInstructions)
		builder.WriteString(userInstructionsClose)
	}

	return builder.String()
}
