// Package localdisk stores uploaded files on the local filesystem. It is the
// development backend for the filestore interface; deployments that need
// durable storage swap in another implementation.
package localdisk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackly/stackly-api/internal/filestore"
	"github.com/stackly/stackly-api/internal/platform/logger"
)

// Store writes files under a base directory and serves them from a base URL.
type Store struct {
	baseDir  string
	baseURL  string
	maxBytes int64
	logger   *slog.Logger
}

var _ filestore.FileStore = (*Store)(nil)

// New creates a Store rooted at baseDir. Saved files are addressed as
// baseURL/<name>. maxBytes caps the size of a single file; zero means no cap.
func New(baseDir, baseURL string, maxBytes int64, log *slog.Logger) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if log == nil {
		log = slog.Default()
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", baseDir, err)
	}

	return &Store{
		baseDir:  baseDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   log.With(slog.String("component", "localdisk_store")),
	}, nil
}

// Save writes content to baseDir/name. The name must be a bare file name;
// anything resembling a path is rejected so callers cannot escape the base
// directory.
func (s *Store) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if name == "" {
		return "", filestore.ErrEmptyName
	}
	if filepath.Base(name) != name || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	reader := content
	if s.maxBytes > 0 {
		reader = io.LimitReader(content, s.maxBytes+1)
	}

	path := filepath.Join(s.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file %s: %w", path, err)
	}

	written, err := io.Copy(f, reader)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		os.Remove(path)
		return "", filestore.ErrTooLarge
	}

	log.Debug("file saved", slog.String("name", name), slog.Int64("bytes", written))

	return s.baseURL + "/" + name, nil
}
