// Package fs provides file-based keyword storage: an append-only sink
// writing one keyword per line, and a seed provider reading the same format.
package fs

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mkarczewski/keysheet"
)

var _ keysheet.Sink = (*Writer)(nil)

// Writer writes discovered keywords to a text file, one per line. The file
// is created, and any previous run's contents dropped, on first use; writes
// from concurrent workers are serialized.
type Writer struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// NewWriter creates a Writer that appends to the file at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Record implements keysheet.Sink.
func (w *Writer) Record(ctx context.Context, d keysheet.Discovery) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.open(); err != nil {
			return err
		}
	}
	if _, err := w.file.WriteString(d.Keyword.String() + "\n"); err != nil {
		return keysheet.Errorf(keysheet.EINTERNAL, "writing %s: %v", w.path, err)
	}
	return nil
}

// Close flushes and closes the output file. Safe to call when nothing was
// ever recorded.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return keysheet.Errorf(keysheet.EINTERNAL, "closing %s: %v", w.path, err)
	}
	return nil
}

func (w *Writer) open() error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return keysheet.Errorf(keysheet.EINTERNAL, "creating %s: %v", dir, err)
		}
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return keysheet.Errorf(keysheet.EINTERNAL, "opening %s: %v", w.path, err)
	}
	w.file = f
	return nil
}

var _ keysheet.SeedProvider = (*SeedFile)(nil)

// SeedFile reads seed keywords from a text file, one per line. Blank lines
// and lines starting with '#' are skipped.
type SeedFile struct {
	path string
}

// NewSeedFile creates a SeedFile reading from path.
func NewSeedFile(path string) *SeedFile {
	return &SeedFile{path: path}
}

// Seeds implements keysheet.SeedProvider.
func (s *SeedFile) Seeds(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, keysheet.Errorf(keysheet.ENOTFOUND, "Seed file %s does not exist.", s.path)
		}
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "opening %s: %v", s.path, err)
	}
	defer f.Close()

	var seeds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "reading %s: %v", s.path, err)
	}
	return seeds, nil
}
