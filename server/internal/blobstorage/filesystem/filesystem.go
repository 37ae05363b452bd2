package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AimPizza/malbuch/server/internal/filename"
)

// StagingDir holds in-progress uploads inside the content root. Uploads are renamed into place once fully written.
const StagingDir = ".staging"

var (
	ErrNotFound = errors.New("asset not found")
)

type FileSystem struct {
	logger  *logrus.Logger
	rootDir string
	dir     *os.Root
}

// New creates rootDir if needed and returns a filesystem whose operations can't escape it.
func New(logger *logrus.Logger, rootDir string) (*FileSystem, error) {
	logger.WithField("root_dir", rootDir).Info("Getting directory-limited filesystem access")

	err := os.MkdirAll(rootDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("create root dir: %w", err)
	}

	dir, err := os.OpenRoot(rootDir)
	if err != nil {
		return nil, fmt.Errorf("open root dir: %w", err)
	}

	err = dir.Mkdir(StagingDir, 0755)
	if err != nil && !errors.Is(err, os.ErrExist) {
		_ = dir.Close()
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	return &FileSystem{
		logger:  logger,
		rootDir: rootDir,
		dir:     dir,
	}, nil
}

// RootDir returns the content directory path the filesystem was opened with.
func (fs *FileSystem) RootDir() string {
	return fs.rootDir
}

// PutObject reads data from the provided io.Reader and stores it under the given name, replacing any existing asset
// with the same name. Data is written to a staging file first and then renamed into place, so readers never observe
// a partially written asset and concurrent writers to the same name resolve to last-writer-wins.
func (fs *FileSystem) PutObject(ctx context.Context, r io.Reader, name filename.Safe) (written int64, err error) {
	if name.IsZero() {
		return 0, fmt.Errorf("put object: %w", filename.ErrEmpty)
	}

	stagingName := path.Join(StagingDir, mustUUIDV7())
	logger := fs.logger.WithContext(ctx).WithFields(logrus.Fields{
		"file":    name.String(),
		"staging": stagingName,
	})

	f, err := fs.dir.Create(stagingName)
	if err != nil {
		logger.WithError(err).Error("Could not create staging file when putting object in filesystem")
		return 0, fmt.Errorf("create staging file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = fs.dir.Remove(stagingName)
		}
	}()

	written, err = io.Copy(f, r)
	if err != nil {
		logger.WithError(err).Error("Could not write to staging file when putting object in filesystem")
		return 0, fmt.Errorf("write to staging file: %w", err)
	}

	err = f.Close()
	if err != nil {
		logger.WithError(err).Error("Could not close staging file when putting object in filesystem")
		return 0, fmt.Errorf("close staging file: %w", err)
	}

	err = fs.dir.Rename(stagingName, name.String())
	if err != nil {
		logger.WithError(err).Error("Could not move staging file into place")
		return 0, fmt.Errorf("commit object file: %w", err)
	}

	return written, nil
}

// DeleteObject removes the named asset. It returns ErrNotFound if there's no such asset.
func (fs *FileSystem) DeleteObject(ctx context.Context, name filename.Safe) error {
	logger := fs.logger.WithContext(ctx).WithField("file", name.String())

	if name.IsZero() {
		return fmt.Errorf("delete object: %w", filename.ErrEmpty)
	}

	err := fs.dir.Remove(name.String())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %q: %w", name.String(), ErrNotFound)
		}
		logger.WithError(err).Error("Could not remove file from filesystem")
		return fmt.Errorf("remove object file: %w", err)
	}

	return nil
}

// Exists reports whether a regular file is stored under name.
func (fs *FileSystem) Exists(_ context.Context, name filename.Safe) (bool, error) {
	if name.IsZero() {
		return false, nil
	}

	info, err := fs.dir.Stat(name.String())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat object file: %w", err)
	}

	return info.Mode().IsRegular(), nil
}

// Open opens the named asset for reading. The caller must close the returned file.
func (fs *FileSystem) Open(_ context.Context, name filename.Safe) (*os.File, os.FileInfo, error) {
	if name.IsZero() {
		return nil, nil, ErrNotFound
	}

	f, err := fs.dir.Open(name.String())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("open %q: %w", name.String(), ErrNotFound)
		}
		return nil, nil, fmt.Errorf("open object file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("stat object file: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("open %q: %w", name.String(), ErrNotFound)
	}

	return f, info, nil
}

// List returns the names of all stored assets, skipping the staging area and hidden files.
func (fs *FileSystem) List(context.Context) ([]string, error) {
	entries, err := fs.readDir(".")
	if err != nil {
		return nil, fmt.Errorf("list root dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// SweepStaging removes staging files older than maxAge, left behind by uploads that never completed.
// It returns the number of removed files; failures to remove individual files are joined into the returned error.
func (fs *FileSystem) SweepStaging(ctx context.Context, maxAge time.Duration) (int, error) {
	logger := fs.logger.WithContext(ctx)

	entries, err := fs.readDir(StagingDir)
	if err != nil {
		return 0, fmt.Errorf("list staging dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	var (
		removed int
		errs    []error
	)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue // finished or swept meanwhile
			}
			errs = append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		err = fs.dir.RemoveAll(path.Join(StagingDir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
		logger.WithField("staging", entry.Name()).Debug("Removed abandoned staging file")
	}

	return removed, errors.Join(errs...)
}

func (fs *FileSystem) Close() error {
	return fs.dir.Close()
}

func (fs *FileSystem) readDir(name string) ([]os.DirEntry, error) {
	return iofs.ReadDir(fs.dir.FS(), name)
}

func mustUUIDV7() string {
	u, err := uuid.NewV7()
	if err != nil {
		panic(fmt.Errorf("failed to generate uuid: %v", err))
	}
	return u.String()
}
