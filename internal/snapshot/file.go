package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per session code. Writes go to a temp
// file first and are renamed into place, so readers never observe a
// partial snapshot.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fst *FileStore) path(code string) string {
	return filepath.Join(fst.dir, code+".json")
}

func (fst *FileStore) Save(code string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := fst.path(code) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, fst.path(code)); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (fst *FileStore) Load(code string) (Record, bool, error) {
	data, err := os.ReadFile(fst.path(code))
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt snapshot means no recoverable session; callers fall
		// back to setup rather than failing.
		return Record{}, false, nil
	}
	return rec, true, nil
}

func (fst *FileStore) Delete(code string) error {
	err := os.Remove(fst.path(code))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
