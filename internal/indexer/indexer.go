// Package indexer ingests strings and files into storage.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hyperjump/chikai/internal/extract"
	"github.com/hyperjump/chikai/internal/fileid"
	"github.com/hyperjump/chikai/internal/storage"
	"go.uber.org/zap"
)

// fileState remembers what has been ingested from one file.
type fileState struct {
	digest string
	lines  map[string]int // entry -> times ingested
}

// Indexer appends strings and file entries to storage. Storage is append-only, so a
// file that changes only contributes the entries it did not have before.
type Indexer struct {
	storage   storage.Storage
	extractor *extract.Extractor
	logger    *zap.Logger // optional; when set, logs debug events

	mu    sync.Mutex
	files map[string]*fileState // fileid.FileKey -> state
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (file ingested, unchanged file skipped, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer. extractor may be nil; when nil, files are read as plain text.
func NewIndexer(storage storage.Storage, extractor *extract.Extractor, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		storage:   storage,
		extractor: extractor,
		files:     make(map[string]*fileState),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexStrings appends contents as-is, in order, tagged with source.
func (idx *Indexer) IndexStrings(ctx context.Context, source string, contents []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	items, err := idx.storage.Ingest(source, contents)
	if err != nil {
		return 0, fmt.Errorf("failed to ingest strings: %w", err)
	}
	return len(items), nil
}

// IndexFile extracts the entries of the file at path and appends the ones not already
// ingested from it. If allowedExts is non-empty, the file's extension must be in the list
// (case-insensitive). Returns the number of entries appended; unchanged files append none.
func (idx *Indexer) IndexFile(ctx context.Context, path string, allowedExts []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return 0, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return 0, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("not a regular file: %s", absPath)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}

	key := fileid.FileKey(absPath)
	digest := fileid.ContentDigest(content)

	// Held across extraction and ingestion so concurrent events for one file
	// cannot both append the same new lines.
	idx.mu.Lock()
	defer idx.mu.Unlock()

	state, ok := idx.files[key]
	if ok && state.digest == digest {
		if idx.logger != nil {
			idx.logger.Debug("indexer skipping unchanged file", zap.String("path", absPath))
		}
		return 0, nil
	}
	entries, err := idx.extractEntries(content, ext)
	if err != nil {
		return 0, fmt.Errorf("extract content: %w", err)
	}
	if state == nil {
		state = &fileState{lines: make(map[string]int)}
	}
	fresh := newEntries(entries, state.lines)
	if len(fresh) > 0 {
		if _, err := idx.storage.Ingest(absPath, fresh); err != nil {
			return 0, fmt.Errorf("failed to ingest %s: %w", absPath, err)
		}
		for _, e := range fresh {
			state.lines[e]++
		}
	}
	state.digest = digest
	idx.files[key] = state
	if idx.logger != nil {
		idx.logger.Debug("indexer file ingested", zap.String("path", absPath),
			zap.Int("entries", len(entries)), zap.Int("appended", len(fresh)))
	}
	return len(fresh), nil
}

// newEntries returns the entries of the current file version beyond what seen already
// accounts for. Duplicate lines are counted, so a second copy of a line is new.
func newEntries(entries []string, seen map[string]int) []string {
	remaining := make(map[string]int, len(seen))
	for k, v := range seen {
		remaining[k] = v
	}
	var fresh []string
	for _, e := range entries {
		if remaining[e] > 0 {
			remaining[e]--
			continue
		}
		fresh = append(fresh, e)
	}
	return fresh
}

// IndexDirectory walks dir recursively and ingests each regular file whose extension
// is in allowedExts (if non-empty; otherwise all files). Returns the number of files
// visited, the number of entries appended, and the first error encountered, if any.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string, allowedExts []string) (files, entries int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so we only ingest regular files
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		n, indexErr := idx.IndexFile(ctx, path, allowedExts)
		if indexErr != nil {
			return indexErr
		}
		files++
		entries += n
		return nil
	})
	return files, entries, err
}

// ResetStorage clears the storage and forgets all ingested files in one step, so a
// concurrent IndexFile either lands before the reset or sees no record of the file.
func (idx *Indexer) ResetStorage() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.storage.Reset()
	idx.files = make(map[string]*fileState)
	if idx.logger != nil {
		idx.logger.Debug("indexer storage reset")
	}
}

// TrackedFiles returns the number of files ingested so far.
func (idx *Indexer) TrackedFiles() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.files)
}

func (idx *Indexer) extractEntries(content []byte, ext string) ([]string, error) {
	var text string
	if idx.extractor != nil {
		var err error
		if text, err = idx.extractor.ExtractBytes(content, ext); err != nil {
			return nil, err
		}
	} else {
		text = string(content)
	}
	entries := extract.SplitEntries(text)
	for i, e := range entries {
		entries[i] = Preprocess(e)
	}
	return entries, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
