package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Store hands the styling pass an open workbook for the duration of one
// callback. Implementations own every transient resource they create and
// must release it before Edit returns, whether fn succeeds, fails or panics.
type Store interface {
	// Edit opens data as a workbook, runs fn on it and returns the
	// re-serialized document.
	Edit(data []byte, fn func(f *excelize.File) error) ([]byte, error)
}

// =============================================================================
// TEMP FILE STORE
// =============================================================================

// DefaultTempPrefix names transient styling files.
const DefaultTempPrefix = "temp_dcr_"

// TempFileStore persists the workbook to a uniquely named temporary file,
// edits it in place, reads it back and deletes it.
type TempFileStore struct {
	// Dir is the directory for the temp file. Empty means os.TempDir().
	Dir string

	// Prefix starts every temp file name. Empty means DefaultTempPrefix.
	Prefix string

	// Now is the clock used in file names. Nil means time.Now.
	Now func() time.Time
}

// NewTempFileStore returns a store writing into dir.
func NewTempFileStore(dir string) *TempFileStore {
	return &TempFileStore{Dir: dir}
}

// Edit implements Store.
func (s *TempFileStore) Edit(data []byte, fn func(f *excelize.File) error) (out []byte, err error) {
	path, err := s.create(data)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = errors.Join(err, fmt.Errorf("failed to remove temp file: %w", rmErr))
		}
	}()

	if err := editFile(path, fn); err != nil {
		return nil, err
	}

	out, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read back temp file: %w", err)
	}
	return out, nil
}

// create writes data to a new file that did not exist before.
func (s *TempFileStore) create(data []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultTempPrefix
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	name := fmt.Sprintf("%s%s_%s.xlsx", prefix, now().Format("20060102_150405"), uuid.NewString())
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return path, nil
}

// editFile opens the workbook at path, applies fn and saves it back.
// The workbook handle is closed before returning so the file can be re-read
// and removed.
func editFile(path string, fn func(f *excelize.File) error) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open temp workbook: %w", err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save temp workbook: %w", err)
	}
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore edits the workbook without touching the filesystem.
type MemoryStore struct{}

// Edit implements Store.
func (MemoryStore) Edit(data []byte, fn func(f *excelize.File) error) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
