package source

import (
	"fmt"
	"sync"

	"fullyhacks/internal/style"
)

// Cache loads source units on first use and keeps their styled lines for its
// whole lifetime. Units are assumed immutable while the process runs, so there
// is no invalidation.
type Cache struct {
	mu       sync.Mutex
	loader   Loader
	renderer style.Renderer
	syntax   Syntax
	units    map[string]*Unit
}

// NewCache creates a cache. A nil loader reads from disk, a nil renderer
// leaves lines unstyled.
func NewCache(loader Loader, renderer style.Renderer, syntax Syntax) *Cache {
	if loader == nil {
		loader = DiskLoader{}
	}
	if renderer == nil {
		renderer = style.Plain{}
	}
	return &Cache{
		loader:   loader,
		renderer: renderer,
		syntax:   syntax,
		units:    make(map[string]*Unit),
	}
}

// Unit returns the loaded unit, loading and styling it on a miss.
// Load failures are returned as-is (wrapped) and are not cached.
func (c *Cache) Unit(id string) (*Unit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u, ok := c.units[id]; ok {
		return u, nil
	}

	content, err := c.loader.Load(id)
	if err != nil {
		return nil, fmt.Errorf("load source %s: %w", id, err)
	}

	lines, flags := splitLines(content)
	for i, line := range lines {
		lines[i] = c.syntax.StyleLine(c.renderer, line)
	}
	u := &Unit{ID: id, Lines: lines, Flags: flags}
	c.units[id] = u
	return u, nil
}

// Lines returns the styled lines of unit id.
func (c *Cache) Lines(id string) ([]string, error) {
	u, err := c.Unit(id)
	if err != nil {
		return nil, err
	}
	return u.Lines, nil
}

// size returns the number of cached units.
func (c *Cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.units)
}
