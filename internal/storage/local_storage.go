package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"github.com/google/uuid"
)

// LocalStore stores recipe images on the local filesystem. Used in
// development and in tests; production runs on S3Store.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStore) Save(_ context.Context, data []byte, ext string) (string, error) {
	key := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	path := filepath.Join(s.dir, key)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("Failed to write image file", err, map[string]interface{}{
			"path": path,
		})
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	logger.Debug("Image written to disk", map[string]interface{}{
		"path": path,
		"size": len(data),
	})
	return key, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	path := filepath.Join(s.dir, filepath.Base(key))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Error("Failed to remove image file", err, map[string]interface{}{
			"path": path,
		})
		return err
	}
	return nil
}

func (s *LocalStore) ListKeys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			keys = append(keys, entry.Name())
		}
	}
	return keys, nil
}

func (s *LocalStore) URL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return "/media/recipes/" + key
}
