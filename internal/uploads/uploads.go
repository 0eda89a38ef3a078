package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	appLog "syllabuscal/internal/log"
)

// Store spools uploaded syllabus files to disk so the extraction client can
// hand the collaborator a file path. Spooled files are short-lived: the
// request handler removes them when done, and the sweeper catches anything
// left behind by crashed or abandoned requests.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "./var/uploads"
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the upload to a fresh 0600 temp file and returns its path.
func (s *Store) Save(r io.Reader, filename string) (string, error) {
	f, err := os.CreateTemp(s.dir, "syllabus-*"+safeExt(filename))
	if err != nil {
		return "", fmt.Errorf("create temp upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := os.Chmod(f.Name(), 0o600); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("chmod upload: %w", err)
	}
	return f.Name(), nil
}

// Remove deletes a spooled upload; absence is not an error.
func (s *Store) Remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		appLog.Error("remove upload failed", err, "path", path)
	}
}

// Sweep deletes spooled files older than maxAge and reports how many were
// removed. Failures are logged and skipped.
func (s *Store) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		appLog.Error("sweep: read upload dir failed", err, "dir", s.dir)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "syllabus-") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			appLog.Error("sweep: remove failed", err, "name", e.Name())
			continue
		}
		removed++
	}
	return removed
}

// StartSweeper runs Sweep on the given cron schedule until the returned
// stop function is called.
func (s *Store) StartSweeper(spec string, maxAge time.Duration) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := s.Sweep(maxAge); n > 0 {
			appLog.Info("upload sweep", "removed", n, "dir", s.dir)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("sweep schedule %q: %w", spec, err)
	}
	c.Start()
	return func() { c.Stop() }, nil
}

// safeExt keeps the original file extension on the spooled name when it is
// short and free of path or glob characters, so the extractor can infer the
// MIME type from it.
func safeExt(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\*?`) {
		return ""
	}
	return ext
}
