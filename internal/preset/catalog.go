// Package preset provides the static catalog of voxel models.
package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/pkg/voxel"
)

// ErrNotFound is returned for unknown preset names.
var ErrNotFound = errors.New("preset not found")

// Preset is a named voxel model.
type Preset struct {
	Name   string
	Voxels voxel.Set
}

// Catalog is an ordered set of presets, addressable by name or position.
type Catalog struct {
	presets []Preset
	index   map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Builtin returns a catalog holding the built-in models.
func Builtin() *Catalog {
	c := NewCatalog()
	for _, p := range builtins() {
		c.Add(p)
	}
	return c
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add inserts p, replacing an existing preset with the same name in place.
func (c *Catalog) Add(p Preset) {
	k := key(p.Name)
	if i, ok := c.index[k]; ok {
		c.presets[i] = p
		return
	}
	c.index[k] = len(c.presets)
	c.presets = append(c.presets, p)
}

// Get looks a preset up by case-insensitive name.
func (c *Catalog) Get(name string) (Preset, error) {
	i, ok := c.index[key(name)]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.presets[i], nil
}

// At returns the preset at position i in catalog order.
func (c *Catalog) At(i int) (Preset, bool) {
	if i < 0 || i >= len(c.presets) {
		return Preset{}, false
	}
	return c.presets[i], true
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}

// Names returns preset names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.presets))
	for i, p := range c.presets {
		names[i] = p.Name
	}
	return names
}

// LoadDir adds every .yaml, .yml and .json model in dir, in file name order.
// Files that fail to parse are logged and skipped.
func (c *Catalog) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading preset dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	loaded := 0
	for _, path := range files {
		set, name, err := voxel.LoadFile(path)
		if err != nil {
			logger.Warn("skipping preset file", zap.String("path", path), zap.Error(err))
			continue
		}
		c.Add(Preset{Name: name, Voxels: set})
		loaded++
	}
	logger.Info("presets loaded", zap.String("dir", dir), zap.Int("count", loaded))
	return loaded, nil
}
