package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"
)

var published = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func publicDir() fstest.MapFS {
	return fstest.MapFS{
		"file_details.json":         {Data: []byte(`{"samples":[]}`), ModTime: published},
		"curl-download_samples.txt": {Data: []byte("#!/bin/bash\n"), ModTime: published},
		"favicon.ico":               {Data: []byte{0, 0, 1, 0}, ModTime: published},
		"nested/readme.md":          {Data: []byte("# hi"), ModTime: published},
	}
}

// fakeClock is a settable time source for TTL tests.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newClocked(fsys fs.FS, ttl time.Duration, budget int64) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)}
	c := New(fsys, ttl, budget)
	c.clock = clock.now
	return c, clock
}

func mustRead(t *testing.T, c *Cache, name string) (*File, Status) {
	t.Helper()
	file, status, err := c.Read(name)
	if err != nil {
		t.Fatalf("Read(%q): %v", name, err)
	}
	return file, status
}

func TestRead_MissThenHit(t *testing.T) {
	c := New(publicDir(), time.Minute, 1<<20)

	file, status := mustRead(t, c, "file_details.json")
	if status != StatusMiss {
		t.Errorf("first read status = %q, want miss", status)
	}
	if string(file.Data) != `{"samples":[]}` {
		t.Errorf("Data = %q", file.Data)
	}
	if !file.ModTime.Equal(published) {
		t.Errorf("ModTime = %v, want %v", file.ModTime, published)
	}

	if _, status := mustRead(t, c, "file_details.json"); status != StatusHit {
		t.Errorf("second read status = %q, want hit", status)
	}
	if c.Len() != 1 || c.Size() != int64(len(`{"samples":[]}`)) {
		t.Errorf("Len, Size = %d, %d", c.Len(), c.Size())
	}
}

func TestRead_ContentTypes(t *testing.T) {
	c := New(publicDir(), time.Minute, 1<<20)

	tests := map[string]string{
		"curl-download_samples.txt": "text/plain; charset=utf-8",
		"file_details.json":         "application/json",
	}
	for name, want := range tests {
		file, _ := mustRead(t, c, name)
		if file.ContentType != want {
			t.Errorf("Read(%q).ContentType = %q, want %q", name, file.ContentType, want)
		}
	}

	fsys := fstest.MapFS{"blob.zzunknown": {Data: []byte("x")}}
	file, _ := mustRead(t, New(fsys, time.Minute, 1<<20), "blob.zzunknown")
	if file.ContentType != "application/octet-stream" {
		t.Errorf("unknown extension ContentType = %q", file.ContentType)
	}
}

func TestRead_RevalidatesUnchanged(t *testing.T) {
	c, clock := newClocked(publicDir(), time.Minute, 1<<20)
	first, _ := mustRead(t, c, "file_details.json")

	clock.advance(2 * time.Minute)
	file, status := mustRead(t, c, "file_details.json")
	if status != StatusRevalidated {
		t.Errorf("status = %q, want revalidated", status)
	}
	if file != first {
		t.Error("revalidated read returned a different file")
	}

	clock.advance(30 * time.Second)
	if _, status := mustRead(t, c, "file_details.json"); status != StatusHit {
		t.Errorf("status after revalidation = %q, want hit", status)
	}
}

func TestRead_ReloadsChanged(t *testing.T) {
	fsys := publicDir()
	c, clock := newClocked(fsys, time.Minute, 1<<20)
	mustRead(t, c, "file_details.json")

	updated := `{"samples":[{"public_name":"s1"}]}`
	fsys["file_details.json"] = &fstest.MapFile{
		Data:    []byte(updated),
		ModTime: published.Add(24 * time.Hour),
	}

	// Inside the TTL the old copy is still served.
	file, status := mustRead(t, c, "file_details.json")
	if status != StatusHit || string(file.Data) != `{"samples":[]}` {
		t.Errorf("within TTL: status %q data %q", status, file.Data)
	}

	clock.advance(2 * time.Minute)
	file, status = mustRead(t, c, "file_details.json")
	if status != StatusMiss {
		t.Errorf("status = %q, want miss for changed file", status)
	}
	if string(file.Data) != updated {
		t.Errorf("Data = %q, want new content", file.Data)
	}
	if c.Len() != 1 || c.Size() != int64(len(updated)) {
		t.Errorf("Len, Size = %d, %d after reload", c.Len(), c.Size())
	}
}

func TestRead_SameMtimeDifferentSize(t *testing.T) {
	fsys := publicDir()
	c, clock := newClocked(fsys, time.Minute, 1<<20)
	mustRead(t, c, "curl-download_samples.txt")

	fsys["curl-download_samples.txt"] = &fstest.MapFile{
		Data:    []byte("#!/bin/bash\ncurl -O x\n"),
		ModTime: published,
	}
	clock.advance(2 * time.Minute)

	if _, status := mustRead(t, c, "curl-download_samples.txt"); status != StatusMiss {
		t.Errorf("status = %q, want miss when the size changed", status)
	}
}

func TestRead_RemovedAfterCaching(t *testing.T) {
	fsys := publicDir()
	c, clock := newClocked(fsys, time.Minute, 1<<20)
	mustRead(t, c, "favicon.ico")

	delete(fsys, "favicon.ico")
	clock.advance(2 * time.Minute)

	_, _, err := c.Read("favicon.ico")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
	if c.Len() != 0 || c.Size() != 0 {
		t.Errorf("Len, Size = %d, %d, want removed file dropped", c.Len(), c.Size())
	}
}

func TestRead_Errors(t *testing.T) {
	c := New(publicDir(), time.Minute, 1<<20)

	tests := []struct {
		name string
		want error
	}{
		{"absent.json", fs.ErrNotExist},
		{"nested", fs.ErrNotExist},
		{"../etc/passwd", fs.ErrInvalid},
		{"/abs", fs.ErrInvalid},
		{"", fs.ErrInvalid},
	}
	for _, tt := range tests {
		_, _, err := c.Read(tt.name)
		if !errors.Is(err, tt.want) {
			t.Errorf("Read(%q) err = %v, want %v", tt.name, err, tt.want)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, failed reads should not be cached", c.Len())
	}
}

func sized(names ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, n := range names {
		fsys[n] = &fstest.MapFile{Data: []byte(strings.Repeat(n, 40)), ModTime: published}
	}
	return fsys
}

func TestRead_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(sized("a", "b", "c"), time.Minute, 100)

	mustRead(t, c, "a")
	mustRead(t, c, "b")
	mustRead(t, c, "a")
	mustRead(t, c, "c")

	if c.Len() != 2 || c.Size() != 80 {
		t.Fatalf("Len, Size = %d, %d, want 2, 80", c.Len(), c.Size())
	}
	if _, status := mustRead(t, c, "a"); status != StatusHit {
		t.Errorf("a: status = %q, recently used file was evicted", status)
	}
	if _, status := mustRead(t, c, "b"); status != StatusMiss {
		t.Errorf("b: status = %q, want miss for the evicted file", status)
	}
}

func TestRead_OverBudgetFileIsServedNotKept(t *testing.T) {
	c := New(sized("a"), time.Minute, 10)

	file, status := mustRead(t, c, "a")
	if status != StatusMiss || len(file.Data) != 40 {
		t.Errorf("status %q, %d bytes", status, len(file.Data))
	}
	if c.Len() != 0 || c.Size() != 0 {
		t.Errorf("Len, Size = %d, %d, want nothing held", c.Len(), c.Size())
	}
}

func TestRead_Concurrent(t *testing.T) {
	names := make([]string, 10)
	for i := range names {
		names[i] = fmt.Sprintf("sample_%d.txt", i)
	}
	c := New(sized(names...), time.Minute, 1<<20)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := c.Read(names[i%len(names)]); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != len(names) {
		t.Errorf("Len = %d, want %d", c.Len(), len(names))
	}
}
