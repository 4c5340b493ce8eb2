package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/dmitrijs2005/multisession/internal/filex"
)

// File keeps all keys in a single JSON object file. Every write rewrites the
// file through a temp file and rename; a sibling ".lock" file serialises
// writers from several processes.
type File struct {
	path string
	lock *flock.Flock
}

// NewFile returns a File backend at path, creating its directory.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file storage: empty path")
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	return &File{path: path, lock: flock.New(path + ".lock")}, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	if err := f.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("failed to get storage[%s]: %w", key, err)
	}
	defer func() { _ = f.lock.Unlock() }()

	data, err := f.read()
	if err != nil {
		return "", false, fmt.Errorf("failed to get storage[%s]: %w", key, err)
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	if err := f.Apply(ctx, SetOp(key, value)); err != nil {
		return fmt.Errorf("failed to set storage[%s]: %w", key, err)
	}
	return nil
}

func (f *File) Remove(ctx context.Context, key string) error {
	if err := f.Apply(ctx, RemoveOp(key)); err != nil {
		return fmt.Errorf("failed to remove storage[%s]: %w", key, err)
	}
	return nil
}

// ErrCorrupt reports a storage file that is not a JSON object of strings.
var ErrCorrupt = errors.New("corrupt storage file")

// Apply performs a single read-modify-write under the exclusive lock.
// A corrupt file is moved aside to "<path>.corrupt" and the write starts
// from an empty map.
func (f *File) Apply(_ context.Context, ops ...Op) error {
	if err := f.lock.Lock(); err != nil {
		return err
	}
	defer func() { _ = f.lock.Unlock() }()

	data, err := f.read()
	switch {
	case errors.Is(err, ErrCorrupt):
		if err := os.Rename(f.path, f.path+".corrupt"); err != nil {
			return fmt.Errorf("move aside corrupt %s: %w", f.path, err)
		}
		data = make(map[string]string)
	case err != nil:
		return err
	}
	for _, op := range ops {
		if op.Delete {
			delete(data, op.Key)
			continue
		}
		data[op.Key] = op.Value
	}
	return f.write(data)
}

func (f *File) Close() error { return nil }

// read returns the stored map; a missing file is an empty map.
func (f *File) read() (map[string]string, error) {
	data := make(map[string]string)
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", f.path, ErrCorrupt, err)
	}
	return data, nil
}

func (f *File) write(data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

var _ Backend = (*File)(nil)
var _ Batcher = (*File)(nil)
