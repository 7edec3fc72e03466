package backing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAnonymousRoundTrip(t *testing.T) {
	r, err := Create("", 256, Anonymous)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer r.Close()

	b := r.Bytes()
	if len(b) != 256 {
		t.Fatalf("len = %d, want 256", len(b))
	}
	b[0] = 0xAB
	if r.Bytes()[0] != 0xAB {
		t.Fatalf("mutation through Bytes() not reflected")
	}
}

func TestFileBackedCreateOpenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketch.bin")

	r, err := Create(path, 512, Create|Truncate|Writable|Shared)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	copy(r.Bytes(), []byte("hello region"))
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	opened, err := Open(path, Writable)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(opened.Bytes()[:12]) != "hello region" {
		t.Fatalf("opened contents = %q", opened.Bytes()[:12])
	}
	opened.Close()

	loaded, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(loaded.Bytes()[:12]) != "hello region" {
		t.Fatalf("loaded contents = %q", loaded.Bytes()[:12])
	}
	loaded.Bytes()[0] = 'X' // mutation must not reach disk
	loaded.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if raw[0] != 'h' {
		t.Fatalf("Load mutation leaked to disk: %q", raw[:1])
	}
}

func TestSaveWritesNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	r, err := Create("", 64, Anonymous)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	copy(r.Bytes(), []byte("saved bytes"))
	if err := r.Save(path, Create); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(raw[:11]) != "saved bytes" {
		t.Fatalf("saved contents = %q", raw[:11])
	}
}

func TestPreloadDoesNotPanicOnSmallRegion(t *testing.T) {
	r, err := Create("", 10, Anonymous|Preload)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer r.Close()
}

func TestWordsViewsBytesAsUint64(t *testing.T) {
	r, err := Create("", 16, Anonymous)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer r.Close()

	words := r.Words()
	if len(words) != 2 {
		t.Fatalf("len(words) = %d, want 2", len(words))
	}
	words[0] = 0xDEADBEEF
	if r.Bytes()[0] != 0xEF {
		t.Fatalf("Words() does not alias Bytes()")
	}
}
