package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory and file permissions for the cache root. Owner only.
const (
	dirMode  os.FileMode = 0o700
	fileMode os.FileMode = 0o600
)

// lockFileName is the advisory lock shared by writers of one cache root.
const lockFileName = ".lock"

// PathManager handles record path construction under the cache root.
type PathManager struct {
	baseDir string
}

// NewPathManager creates a new PathManager with the given base directory.
// The base directory is typically ~/.cache/authgate-auth.
func NewPathManager(baseDir string) *PathManager {
	return &PathManager{baseDir: baseDir}
}

// BaseDir returns the cache root.
func (p *PathManager) BaseDir() string {
	return p.baseDir
}

// ServiceDir returns the directory for a service.
// Path format: <baseDir>/<service>/
func (p *PathManager) ServiceDir(service string) string {
	return filepath.Join(p.baseDir, service)
}

// RecordPath returns the full path of a record file.
// Path format: <baseDir>/<service>/<record>
func (p *PathManager) RecordPath(service, record string) string {
	return filepath.Join(p.baseDir, service, record)
}

// LockPath returns the path of the writer lock file.
func (p *PathManager) LockPath() string {
	return filepath.Join(p.baseDir, lockFileName)
}

// EnsureServiceDir creates the service directory if it doesn't exist.
func (p *PathManager) EnsureServiceDir(service string) (string, error) {
	dir := p.ServiceDir(service)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return "", fmt.Errorf("create service directory: %w", err)
	}
	return dir, nil
}
