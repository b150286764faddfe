package shortlist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileSlot keeps one key as <dir>/<key>.json. Writes go to a temporary
// file that is renamed over the target, so readers never see a partial value.
type FileSlot struct {
	path string
}

func NewFileSlot(dir, key string) (*FileSlot, error) {
	if !keyPattern.MatchString(key) {
		return nil, fmt.Errorf("invalid slot key %q", key)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &FileSlot{path: filepath.Join(dir, key+".json")}, nil
}

func (s *FileSlot) Path() string { return s.path }

func (s *FileSlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read slot: %w", err)
	}
	return data, nil
}

func (s *FileSlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := s.path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace slot: %w", err)
	}
	return nil
}
