package logging

import (
	"fmt"
	"os"
	"sync"
)

// rotatingFile appends to path and, once the next write would push it past
// maxBytes, shifts path -> path.1 -> path.2 ... keeping at most backups old
// files. With backups == 0 the file simply starts over.
type rotatingFile struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	backups  int
	f        *os.File
	size     int64
}

func openRotatingFile(path string, maxMB, backups int) (*rotatingFile, error) {
	if maxMB <= 0 {
		return nil, fmt.Errorf("log file cap must be positive, got %d MB", maxMB)
	}
	r := &rotatingFile{path: path, maxBytes: int64(maxMB) << 20, backups: max(backups, 0)}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if r.size > 0 && r.size+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := r.f.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// rotate runs with mu held.
func (r *rotatingFile) rotate() error {
	_ = r.f.Close()
	r.f = nil
	if r.backups == 0 {
		if err := os.Truncate(r.path, 0); err != nil && !os.IsNotExist(err) {
			return err
		}
		return r.open()
	}
	_ = os.Remove(backupName(r.path, r.backups))
	for i := r.backups - 1; i >= 1; i-- {
		if err := os.Rename(backupName(r.path, i), backupName(r.path, i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if err := os.Rename(r.path, backupName(r.path, 1)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return r.open()
}

func (r *rotatingFile) open() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	r.f, r.size = f, info.Size()
	return nil
}

func backupName(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
