package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/richprompt/richprompt/internal/types"
)

// NewFileContentReader returns a ContentReader backed by the filesystem.
// Missing paths and non-files yield empty content rather than an error so a
// stale selection entry degrades to an empty block instead of aborting the
// batch. Genuine read failures are reported to the caller.
func NewFileContentReader(logger *zap.SugaredLogger) types.ContentReader {
	return func(path string) (string, error) {
		fileInformation, statError := os.Stat(path)
		if statError != nil {
			if os.IsNotExist(statError) {
				logger.Warnf("file does not exist: %s", path)
				return "", nil
			}
			return "", fmt.Errorf("stating %s: %w", path, statError)
		}
		if fileInformation.IsDir() {
			logger.Warnf("not a file: %s", path)
			return "", nil
		}
		if fileInformation.Size() == 0 {
			logger.Debugf("file is empty: %s", path)
			return "", nil
		}

		logger.Debugf("reading file contents: %s", path)
		contentBytes, readError := os.ReadFile(path)
		if readError != nil {
			return "", fmt.Errorf("reading %s: %w", path, readError)
		}
		logger.Debugf("read %d bytes from %s", len(contentBytes), path)
		return string(contentBytes), nil
	}
}
