package cursor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

// fileStore keeps the mapping in a small YAML file.
//
// Save writes to a sibling temp file and renames it over the target, so a
// crash mid-write leaves the previous state untouched.
type fileStore struct {
	path string
	log  logx.Logger
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("cursor.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileStore{path: path, log: log}, nil
}

func (s *fileStore) Load(ctx context.Context) (map[string]string, error) {
	_ = ctx
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run: nothing fetched yet.
			s.log.Debug("cursor file absent, starting empty", logx.String("path", s.path))
			return map[string]string{}, nil
		}
		return nil, err
	}

	var m map[string]string
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("cursor file %s: %w", s.path, err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return foldKeys(m), nil
}

func (s *fileStore) Save(ctx context.Context, lastIDs map[string]string) error {
	_ = ctx
	b, err := yaml.Marshal(foldKeys(lastIDs))
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (s *fileStore) Close() error { return nil }
