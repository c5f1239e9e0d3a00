package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/hyperjump/chikai/internal/extract"
	"github.com/hyperjump/chikai/internal/models"
	"github.com/hyperjump/chikai/internal/storage"
	"go.uber.org/zap"
)

func contents(t *testing.T, s storage.Storage) []string {
	t.Helper()
	items, err := s.Items()
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Content
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestIndexer_IndexStrings(t *testing.T) {
	store := storage.NewMemoryStorage()
	idx := NewIndexer(store, nil)
	n, err := idx.IndexStrings(context.Background(), models.SourceCLI, []string{" kept  verbatim ", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
	if got := contents(t, store); !reflect.DeepEqual(got, []string{" kept  verbatim ", "b"}) {
		t.Errorf("contents = %q", got)
	}
}

func TestIndexer_IndexFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	writeFile(t, path, "apple\n\n  green   apple \nbanana\n")

	store := storage.NewMemoryStorage()
	idx := NewIndexer(store, extract.NewExtractor(), WithLogger(zap.NewNop()))

	n, err := idx.IndexFile(ctx, path, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("appended %d, want 3", n)
	}
	want := []string{"apple", "green apple", "banana"}
	if got := contents(t, store); !reflect.DeepEqual(got, want) {
		t.Errorf("contents = %q, want %q", got, want)
	}
	items, _ := store.Items()
	if items[0].Source != path {
		t.Errorf("source = %q, want %q", items[0].Source, path)
	}

	// Unchanged file: nothing appended.
	n, err = idx.IndexFile(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || store.Size() != 3 {
		t.Errorf("unchanged file appended %d (size %d)", n, store.Size())
	}

	// Rewritten file: only the new lines are appended, including a second copy of a line.
	writeFile(t, path, "banana\napple\npear\napple\ngreen apple\n")
	n, err = idx.IndexFile(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("rewritten file appended %d, want 2", n)
	}
	want = append(want, "pear", "apple")
	if got := contents(t, store); !reflect.DeepEqual(got, want) {
		t.Errorf("contents = %q, want %q", got, want)
	}
	if idx.TrackedFiles() != 1 {
		t.Errorf("tracked files = %d", idx.TrackedFiles())
	}
}

func TestIndexer_IndexFileErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	idx := NewIndexer(storage.NewMemoryStorage(), nil)

	path := filepath.Join(dir, "data.bin")
	writeFile(t, path, "x")
	if _, err := idx.IndexFile(ctx, path, []string{".txt"}); err == nil {
		t.Error("expected error for disallowed extension")
	}
	if _, err := idx.IndexFile(ctx, filepath.Join(dir, "missing.txt"), nil); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := idx.IndexFile(ctx, dir, nil); err == nil {
		t.Error("expected error for directory")
	}
}

func TestIndexer_IndexFilePoisonedStorage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	writeFile(t, path, "boom\n")

	store := storage.NewMemoryStorage(storage.WithItemHook(func(models.Item) { panic("hook") }))
	idx := NewIndexer(store, nil)
	_, err := idx.IndexFile(context.Background(), path, nil)
	if !errors.Is(err, storage.ErrPoisoned) {
		t.Fatalf("err = %v, want ErrPoisoned", err)
	}
	// Nothing recorded, so the file is retried after a reset.
	if idx.TrackedFiles() != 0 {
		t.Errorf("tracked files = %d, want 0", idx.TrackedFiles())
	}
}

func TestIndexer_IndexDirectoryAndReset(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a.txt"), "one\ntwo\n")
	writeFile(t, filepath.Join(sub, "b.md"), "three\n")
	writeFile(t, filepath.Join(sub, "c.log"), "ignored\n")

	store := storage.NewMemoryStorage()
	idx := NewIndexer(store, extract.NewExtractor())
	files, entries, err := idx.IndexDirectory(ctx, dir, []string{".txt", "md"})
	if err != nil {
		t.Fatal(err)
	}
	if files != 2 || entries != 3 {
		t.Errorf("files=%d entries=%d, want 2 and 3", files, entries)
	}

	idx.ResetStorage()
	_, entries, err = idx.IndexDirectory(ctx, dir, []string{".txt", ".md"})
	if err != nil {
		t.Fatal(err)
	}
	if entries != 3 || store.Size() != 3 {
		t.Errorf("after reset: entries=%d size=%d, want 3", entries, store.Size())
	}

	if _, _, err := idx.IndexDirectory(ctx, filepath.Join(dir, "a.txt"), nil); err == nil {
		t.Error("expected error for non-directory")
	}
}

func TestIndexer_ResetStorage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	writeFile(t, path, "apple\nbanana\n")

	store := storage.NewMemoryStorage()
	idx := NewIndexer(store, nil)
	if _, err := idx.IndexFile(context.Background(), path, nil); err != nil {
		t.Fatal(err)
	}
	idx.ResetStorage()
	if store.Size() != 0 || idx.TrackedFiles() != 0 {
		t.Errorf("after reset: size=%d tracked=%d, want 0 and 0", store.Size(), idx.TrackedFiles())
	}
}

func TestIndexer_ResetStorageConcurrentWithIndexFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	writeFile(t, path, "apple\nbanana\n")

	store := storage.NewMemoryStorage()
	idx := NewIndexer(store, nil)
	for i := 0; i < 200; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = idx.IndexFile(ctx, path, nil)
		}()
		go func() {
			defer wg.Done()
			idx.ResetStorage()
		}()
		wg.Wait()

		// Either the file is tracked with its lines stored, or neither; a later event
		// must never append the same lines twice.
		if _, err := idx.IndexFile(ctx, path, nil); err != nil {
			t.Fatal(err)
		}
		if store.Size() != 2 {
			t.Fatalf("iteration %d: size = %d, want 2", i, store.Size())
		}
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  apple  ", "apple"},
		{"premium\t\tdevice  pro", "premium device pro"},
		{"a b", "a b"},
	}
	for _, tt := range tests {
		if got := Preprocess(tt.in); got != tt.want {
			t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
