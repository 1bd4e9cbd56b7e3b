package podcastaddict

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	backupPattern   = "PodcastAddict*.backup"
	databasePattern = "*.db"
	lockFileName    = ".extract.lock"
	lockRetryDelay  = 100 * time.Millisecond
)

var (
	// ErrNotFound is returned when a glob matches no file.
	ErrNotFound = errors.New("no matching file")
	// ErrAmbiguous is returned when a glob matches more than one file.
	ErrAmbiguous = errors.New("more than one matching file")
)

// FindOne returns the single file in dir matching pattern.
func FindOne(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", pattern, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w for pattern %s in %s", ErrNotFound, pattern, dir)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("%w for pattern %s in %s: %s", ErrAmbiguous, pattern, dir, strings.Join(files, ", "))
	}
}

// FindBackup locates the Podcast Addict backup in dir.
func FindBackup(dir string) (string, error) {
	return FindOne(dir, backupPattern)
}

// Extract unpacks backupPath into extractDir and returns the database path.
// An already extracted database is reused. Concurrent runs sharing
// extractDir are serialized with a file lock.
func Extract(ctx context.Context, backupPath, extractDir string) (string, bool, error) {
	if db, err := FindOne(extractDir, databasePattern); err == nil {
		return db, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", false, err
	}

	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create extract dir: %w", err)
	}
	lock := flock.New(filepath.Join(extractDir, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", false, fmt.Errorf("lock extract dir: %w", err)
	}
	if !locked {
		return "", false, errors.New("lock extract dir: not acquired")
	}
	defer func() { _ = lock.Unlock() }()

	// Another run may have finished while we waited for the lock.
	if db, err := FindOne(extractDir, databasePattern); err == nil {
		return db, false, nil
	}

	if err := unzip(backupPath, extractDir); err != nil {
		return "", false, err
	}
	db, err := FindOne(extractDir, databasePattern)
	if err != nil {
		return "", false, fmt.Errorf("extracted backup: %w", err)
	}
	return db, true, nil
}

func unzip(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("open backup %s as zip: %w", archive, err)
	}
	defer r.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolve extract dir: %w", err)
	}
	for _, f := range r.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("backup entry %q escapes extract dir", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open backup entry %s: %w", f.Name, err)
	}
	defer src.Close()

	tmp := target + ".partial"
	dst, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, target)
}
