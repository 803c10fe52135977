package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed storage keys. The report step reads these back; there is no
// versioning or migration for the persisted shapes.
const (
	KeyTranscript = "interview_transcript"
	KeyCandidate  = "candidate_profile"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is a small durable key-value store backed by one JSON file per key.
// It stands in for the browser's local storage in the original flow.
type KV struct {
	mu  sync.Mutex
	dir string
}

// OpenKV creates (if needed) and opens a KV rooted at dir.
func OpenKV(dir string) (*KV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &KV{dir: dir}, nil
}

// Put serializes v as JSON under key. The write is atomic: a temp file
// is renamed into place so readers never observe a partial value.
func (k *KV) Put(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	path := k.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

// Get deserializes the value stored under key into v. Returns
// ErrNotFound when the key does not exist.
func (k *KV) Get(key string, v any) error {
	k.mu.Lock()
	data, err := os.ReadFile(k.path(key))
	k.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (k *KV) Delete(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := os.Remove(k.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (k *KV) path(key string) string {
	return filepath.Join(k.dir, key+".json")
}
