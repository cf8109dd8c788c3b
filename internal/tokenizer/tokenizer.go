// Package tokenizer estimates token counts for generated context text.
package tokenizer

import (
	"errors"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
	heuristicName       = "heuristic"
)

// NewCounter returns a Counter for the requested model together with the
// resolved counter name. Unknown models fall back to the default encoding;
// if tiktoken cannot be initialized at all, the character heuristic is used
// so that token counting never blocks context generation.
func NewCounter(model string) (Counter, string) {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = defaultModel
	}
	lowerModel := strings.ToLower(trimmedModel)

	encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
	if encodingError == nil && encoding != nil {
		return encodingCounter{encoding: encoding, name: lowerModel}, lowerModel
	}

	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError == nil && fallbackEncoding != nil {
		return encodingCounter{encoding: fallbackEncoding, name: defaultEncodingName}, defaultEncodingName
	}

	return HeuristicCounter{}, heuristicName
}

type encodingCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter encodingCounter) Name() string {
	return counter.name
}

func (counter encodingCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoding")
	}
	tokenIdentifiers := counter.encoding.Encode(input, nil, nil)
	return len(tokenIdentifiers), nil
}

const (
	averageCharactersPerToken = 4
	codeTokenInflationFactor  = 1.1
)

// HeuristicCounter approximates GPT tokenization from character counts.
// Code-like content carries more tokens per character than prose, so its
// estimate is inflated by a constant factor.
type HeuristicCounter struct{}

// Name identifies the heuristic counter.
func (HeuristicCounter) Name() string {
	return heuristicName
}

// CountString estimates the token count of input.
func (HeuristicCounter) CountString(input string) (int, error) {
	characterCount := len([]rune(input))
	if characterCount == 0 {
		return 0, nil
	}
	estimatedTokens := (characterCount + averageCharactersPerToken - 1) / averageCharactersPerToken

	looksLikeCode := strings.Contains(input, "```") ||
		strings.Contains(input, "    ") ||
		strings.Contains(input, "\t")
	if looksLikeCode {
		return int(float64(estimatedTokens) * codeTokenInflationFactor), nil
	}
	return estimatedTokens, nil
}
