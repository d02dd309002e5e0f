package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	contractx "github.com/naruebet/voiceline/agent/contract"
	logx "github.com/naruebet/voiceline/pkg/logger"
)

var ErrEmptyCollection = errors.New("collection name is empty")

// FileSink persists finalized records as JSON under a base directory.
// Write produces <base>/<collection>/<id>.json; Append maintains a single
// <base>/<collection>.json array, tolerating a missing or corrupt file by
// starting over from an empty array. Concurrent writers to the same path
// are not supported (single session per process).
type FileSink struct {
	baseDir string
}

var _ contractx.Sink = (*FileSink)(nil)

func NewFileSink(baseDir string) *FileSink {
	dir := strings.TrimSpace(baseDir)
	if dir == "" {
		dir = "."
	}
	return &FileSink{baseDir: dir}
}

func (s *FileSink) Write(_ context.Context, collection, id string, record any) error {
	if strings.TrimSpace(collection) == "" {
		return ErrEmptyCollection
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: record id is empty", contractx.ErrPersistenceSink)
	}

	dir := filepath.Join(s.baseDir, collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", contractx.ErrPersistenceSink, dir, err)
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal record: %v", contractx.ErrPersistenceSink, err)
	}

	path := filepath.Join(dir, id+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", contractx.ErrPersistenceSink, path, err)
	}

	return nil
}

func (s *FileSink) Append(_ context.Context, collection string, record any) error {
	if strings.TrimSpace(collection) == "" {
		return ErrEmptyCollection
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", contractx.ErrPersistenceSink, s.baseDir, err)
	}

	path := filepath.Join(s.baseDir, collection+".json")
	records := s.readExisting(path)

	entry, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %v", contractx.ErrPersistenceSink, err)
	}
	records = append(records, entry)

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal collection: %v", contractx.ErrPersistenceSink, err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", contractx.ErrPersistenceSink, path, err)
	}

	return nil
}

// readExisting loads the current array. Missing and malformed files both
// degrade to an empty array rather than failing the append.
func (s *FileSink) readExisting(path string) []json.RawMessage {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logx.For("persist").Warn().Err(err).Str("path", path).Msg("unreadable collection, starting fresh")
		}
		return nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		logx.For("persist").Warn().Err(err).Str("path", path).Msg("corrupt collection, starting fresh")
		return nil
	}
	return records
}
