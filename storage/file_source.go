package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"listing-insights/utils"
)

// FileSource reads the listing table from a CSV file on disk. Freshness is
// the file's modification time in Unix milliseconds.
type FileSource struct {
	path  string
	retry *utils.RetryConfig
}

// NewFileSource creates a FileSource for the given path. Reads are retried
// with exponential back-off so a writer mid-replace does not fail a rebuild.
func NewFileSource(path string, maxAttempts int, logger *utils.Logger) *FileSource {
	return &FileSource{
		path: path,
		retry: &utils.RetryConfig{
			MaxAttempts: maxAttempts,
			BaseDelay:   200 * time.Millisecond,
			Logger:      logger,
		},
	}
}

// ReadRaw returns the full file contents.
func (s *FileSource) ReadRaw(ctx context.Context) (string, error) {
	var text string
	err := s.retry.Do("read listings file", func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(s.path)
		if err != nil {
			return err
		}
		text = string(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("file source: %w", err)
	}
	return text, nil
}

// Freshness returns the file's mtime in Unix milliseconds.
func (s *FileSource) Freshness() (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, fmt.Errorf("file source: stat %q: %w", s.path, err)
	}
	return info.ModTime().UnixMilli(), nil
}
