package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()

	want := []string{"castle", "tree", "heart", "mushroom", "pyramid", "cube"}
	names := c.Names()
	if len(names) != len(want) {
		t.Fatalf("expected %d presets, got %v", len(want), names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("preset %d: expected %s, got %s", i, n, names[i])
		}
		p, err := c.Get(n)
		if err != nil {
			t.Fatalf("Get(%s): %v", n, err)
		}
		if p.Voxels.Len() == 0 {
			t.Errorf("preset %s is empty", n)
		}
	}

	p, _ := c.Get("cube")
	if p.Voxels.Len() != 64 {
		t.Errorf("expected 64 voxels in cube, got %d", p.Voxels.Len())
	}
}

func TestBuiltinHasNoDuplicateCells(t *testing.T) {
	c := Builtin()
	for _, name := range c.Names() {
		p, _ := c.Get(name)
		seen := make(map[[3]int]bool)
		for _, v := range p.Voxels.Voxels() {
			k := [3]int{v.X, v.Y, v.Z}
			if seen[k] {
				t.Errorf("%s: duplicate voxel at %v", name, k)
			}
			seen[k] = true
		}
	}
}

func TestGetCaseInsensitive(t *testing.T) {
	c := Builtin()
	if _, err := c.Get("  Castle "); err != nil {
		t.Errorf("expected case-insensitive lookup: %v", err)
	}
	if _, err := c.Get("spaceship"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAt(t *testing.T) {
	c := Builtin()
	p, ok := c.At(0)
	if !ok || p.Name != "castle" {
		t.Errorf("expected castle at 0, got %q %v", p.Name, ok)
	}
	if _, ok := c.At(c.Len()); ok {
		t.Error("expected out of range")
	}
	if _, ok := c.At(-1); ok {
		t.Error("expected out of range")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"a_dot.json":   `[{"x":0,"y":0,"z":0,"color":"#ffffff"}]`,
		"b_tower.yaml": "name: Tower\nvoxels:\n  - {x: 0, y: 0, z: 0, color: '#888'}\n  - {x: 0, y: 1, z: 0, color: '#888'}\n",
		"c_bad.json":   `{"voxels":[{"x":0,"y":0,"z":0,"color":"zzz"}]}`,
		"notes.txt":    "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c := Builtin()
	before := c.Len()
	n, err := c.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 presets loaded, got %d", n)
	}
	if c.Len() != before+2 {
		t.Errorf("expected %d presets, got %d", before+2, c.Len())
	}

	tower, err := c.Get("tower")
	if err != nil || tower.Voxels.Len() != 2 {
		t.Errorf("expected Tower with 2 voxels: %v", err)
	}
	if _, err := c.Get("a_dot"); err != nil {
		t.Errorf("expected a_dot named after its file: %v", err)
	}

	if _, err := c.LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestAddReplaces(t *testing.T) {
	c := NewCatalog()
	c.Add(Preset{Name: "a"})
	c.Add(Preset{Name: "b"})
	c.Add(Preset{Name: "A"})

	if c.Len() != 2 {
		t.Errorf("expected replacement in place, got %d presets", c.Len())
	}
	if p, _ := c.At(0); p.Name != "A" {
		t.Errorf("expected replaced preset at index 0, got %q", p.Name)
	}
}
