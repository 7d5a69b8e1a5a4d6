// Package cache keeps recently served public files in memory.
package cache

import (
	"container/list"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"sync"
	"time"
)

// Status says how a read was answered. It is reported in the request log
// and the public file metrics.
type Status string

const (
	StatusHit         Status = "hit"
	StatusMiss        Status = "miss"
	StatusRevalidated Status = "revalidated"
)

// File is a public file as served. Callers must not modify Data.
type File struct {
	Data        []byte
	ContentType string
	ModTime     time.Time
}

// Cache reads files from a filesystem and keeps them in least recently used
// order under a byte budget. A file older than the TTL is checked against
// the filesystem: an unchanged size and modification time renew it, anything
// else reads it again.
type Cache struct {
	fsys   fs.FS
	ttl    time.Duration
	budget int64
	clock  func() time.Time

	mu     sync.Mutex
	byName map[string]*list.Element
	recent *list.List // front is most recently used
	used   int64
}

type slot struct {
	name    string
	file    *File
	size    int64
	expires time.Time
}

// New returns a cache over fsys. budget is the most file bytes held at once.
func New(fsys fs.FS, ttl time.Duration, budget int64) *Cache {
	return &Cache{
		fsys:   fsys,
		ttl:    ttl,
		budget: budget,
		clock:  time.Now,
		byName: make(map[string]*list.Element),
		recent: list.New(),
	}
}

// Read returns the named file. Directories read as fs.ErrNotExist and names
// that are not valid fs paths as fs.ErrInvalid.
func (c *Cache) Read(name string) (*File, Status, error) {
	if !fs.ValidPath(name) {
		return nil, StatusMiss, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	cached, size, fresh := c.lookup(name)
	if fresh {
		return cached, StatusHit, nil
	}

	info, err := fs.Stat(c.fsys, name)
	if err != nil {
		c.remove(name)
		return nil, StatusMiss, err
	}
	if info.IsDir() {
		c.remove(name)
		return nil, StatusMiss, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	if cached != nil && info.Size() == size && info.ModTime().Equal(cached.ModTime) {
		c.renew(name)
		return cached, StatusRevalidated, nil
	}

	data, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return nil, StatusMiss, fmt.Errorf("read %s: %w", name, err)
	}
	file := &File{Data: data, ContentType: contentType(name), ModTime: info.ModTime()}
	c.store(name, file)
	return file, StatusMiss, nil
}

// Len returns the number of files held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recent.Len()
}

// Size returns the bytes held.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// lookup returns the cached file for name, if any, and whether it is still
// inside its TTL. Only fresh files move to the front.
func (c *Cache) lookup(name string) (*File, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byName[name]
	if !ok {
		return nil, 0, false
	}
	s := el.Value.(*slot)
	if c.clock().After(s.expires) {
		return s.file, s.size, false
	}
	c.recent.MoveToFront(el)
	return s.file, s.size, true
}

func (c *Cache) renew(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byName[name]; ok {
		el.Value.(*slot).expires = c.clock().Add(c.ttl)
		c.recent.MoveToFront(el)
	}
}

func (c *Cache) store(name string, file *File) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &slot{
		name:    name,
		file:    file,
		size:    int64(len(file.Data)),
		expires: c.clock().Add(c.ttl),
	}
	if el, ok := c.byName[name]; ok {
		c.used -= el.Value.(*slot).size
		el.Value = s
		c.recent.MoveToFront(el)
	} else {
		c.byName[name] = c.recent.PushFront(s)
	}
	c.used += s.size

	for c.used > c.budget && c.recent.Len() > 0 {
		c.evict(c.recent.Back())
	}
}

func (c *Cache) remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byName[name]; ok {
		c.evict(el)
	}
}

// evict drops el. c.mu must be held.
func (c *Cache) evict(el *list.Element) {
	s := c.recent.Remove(el).(*slot)
	delete(c.byName, s.name)
	c.used -= s.size
}

func contentType(name string) string {
	switch ext := path.Ext(name); ext {
	case ".txt":
		// Download scripts are shell scripts saved as .txt.
		return "text/plain; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}
