package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/voicedesk/voicedesk/internal/logging"
)

// Collection is a JSON array-of-objects record file with upsert-by-id
// semantics: read the whole file, replace or append the record with the
// matching key, write the whole file back. A missing or corrupt file reads
// as empty. Writes go through a temp file and rename so a single record
// write is atomic at file granularity; concurrent writers from other
// processes can still lose updates, which single-process deployments
// accept.
type Collection[T any] struct {
	path string
	key  func(T) string
	mu   sync.Mutex
	log  *logging.Logger
}

// NewCollection creates a collection stored at path. key extracts the
// stable record id used for upserts.
func NewCollection[T any](path string, key func(T) string, log *logging.Logger) *Collection[T] {
	return &Collection[T]{path: path, key: key, log: log.Sub("records")}
}

// Path returns the backing file path.
func (c *Collection[T]) Path() string { return c.path }

// Load reads all records. Missing or unreadable files yield an empty slice.
func (c *Collection[T]) Load() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Collection[T]) load() []T {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}
	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		c.log.Warn().Err(err).Str("path", c.path).Msg("treating corrupt record file as empty")
		return nil
	}
	return recs
}

// Last returns the most recently appended record.
func (c *Collection[T]) Last() (T, bool) {
	recs := c.Load()
	if len(recs) == 0 {
		var zero T
		return zero, false
	}
	return recs[len(recs)-1], true
}

// Upsert replaces the record with the same key or appends it when no record
// matches, then writes the whole collection back.
func (c *Collection[T]) Upsert(rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs := c.load()
	replaced := false
	for i := range recs {
		if c.key(recs[i]) == c.key(rec) {
			recs[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		recs = append(recs, rec)
	}
	return c.write(recs)
}

func (c *Collection[T]) write(recs []T) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating record dir: %w", err)
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp record file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp record file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing record file: %w", err)
	}
	return nil
}
