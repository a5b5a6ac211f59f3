package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"

	"github.com/jmgilman/authgate/internal/slogger"
)

const (
	lockTimeout    = 5 * time.Second
	lockRetryDelay = 10 * time.Millisecond
)

// FileBackend stores each record as a JSON file under
// <root>/<service>/<record>. Writes go through a temp file and rename so
// readers in other processes never observe a partial record; readers take
// no lock.
type FileBackend struct {
	paths *PathManager
	mu    sync.Mutex
}

// NewFileBackend opens (creating if needed) the cache root at dir with
// owner-only permissions. A pre-existing root with wider permissions is
// tightened; if that fails a warning is logged and the backend is still
// returned.
func NewFileBackend(ctx context.Context, dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("stat cache directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("cache path %s is not a directory", dir)
	case info.Mode().Perm()&0o077 != 0:
		if err := os.Chmod(dir, dirMode); err != nil {
			slogger.L(ctx).Warn("cache directory is accessible by other users",
				"path", dir, "mode", info.Mode().Perm().String(), "error", err)
		}
	}

	return &FileBackend{paths: NewPathManager(dir)}, nil
}

// Dir returns the cache root.
func (b *FileBackend) Dir() string {
	return b.paths.BaseDir()
}

func (b *FileBackend) Read(_ context.Context, service, record string) ([]byte, error) {
	if err := ValidateKey(service); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.paths.RecordPath(service, record))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *FileBackend) Write(ctx context.Context, service, record string, data []byte) error {
	if err := ValidateKey(service); err != nil {
		return err
	}
	return b.withLock(ctx, func() error {
		if _, err := b.paths.EnsureServiceDir(service); err != nil {
			return err
		}
		if err := renameio.WriteFile(b.paths.RecordPath(service, record), data, fileMode); err != nil {
			return fmt.Errorf("atomic write: %w", err)
		}
		return nil
	})
}

func (b *FileBackend) Remove(ctx context.Context, service, record string) error {
	if err := ValidateKey(service); err != nil {
		return err
	}
	return b.withLock(ctx, func() error {
		err := os.Remove(b.paths.RecordPath(service, record))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		// Drop the service directory once its last record is gone.
		_ = os.Remove(b.paths.ServiceDir(service)) //nolint:errcheck // Fails while other records remain
		return nil
	})
}

func (b *FileBackend) RemoveIf(ctx context.Context, service, record string, stale func([]byte) bool) error {
	if err := ValidateKey(service); err != nil {
		return err
	}
	return b.withLock(ctx, func() error {
		path := b.paths.RecordPath(service, record)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if !stale(data) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		_ = os.Remove(b.paths.ServiceDir(service)) //nolint:errcheck // Fails while other records remain
		return nil
	})
}

func (b *FileBackend) Services(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.paths.BaseDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	var services []string
	for _, e := range entries {
		if !e.IsDir() || ValidateKey(e.Name()) != nil {
			continue
		}
		services = append(services, e.Name())
	}
	return services, nil
}

// withLock serializes writers across processes sharing the cache root.
func (b *FileBackend) withLock(ctx context.Context, fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	lock := flock.New(b.paths.LockPath())
	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLockTimeout, err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slogger.L(ctx).Debug("failed to release store lock", "path", b.paths.LockPath(), "error", err)
		}
	}()

	return fn()
}
