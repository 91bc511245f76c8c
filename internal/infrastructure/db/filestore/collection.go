package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Collection is a flat JSON array persisted in a single pretty-printed file.
// Writers are serialized: Update holds the lock across read, modify and the
// atomic file replace, so concurrent mutations never lose each other.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

// NewCollection opens the collection at path, creating it as an empty array
// when the file does not exist yet.
func NewCollection[T any](path string) (*Collection[T], error) {
	c := &Collection[T]{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := c.write([]T{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return c, nil
}

// Read returns a snapshot of the whole collection.
func (c *Collection[T]) Read(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Update runs fn over the current items and persists what it returns. If fn
// fails nothing is written.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.write(next)
}

func (c *Collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(c.path), err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(c.path), err)
	}
	return items, nil
}

func (c *Collection[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(c.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(c.path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(c.path), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", filepath.Base(c.path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(c.path), err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(c.path), err)
	}
	return nil
}
