package voxel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor is the wire shape of a voxel, shared by presets, history and the generation service.
type Descriptor struct {
	X     int    `json:"x" yaml:"x"`
	Y     int    `json:"y" yaml:"y"`
	Z     int    `json:"z" yaml:"z"`
	Color string `json:"color" yaml:"color"`
}

// FromDescriptors converts descriptors into a set. Any invalid color fails the whole list.
func FromDescriptors(ds []Descriptor) (Set, error) {
	voxels := make([]Voxel, len(ds))
	for i, d := range ds {
		c, err := ParseColor(d.Color)
		if err != nil {
			return Set{}, fmt.Errorf("voxel %d: %w", i, err)
		}
		voxels[i] = Voxel{X: d.X, Y: d.Y, Z: d.Z, Color: c}
	}
	return Set{voxels: voxels}, nil
}

// Descriptors converts the set back to its wire shape.
func (s Set) Descriptors() []Descriptor {
	ds := make([]Descriptor, len(s.voxels))
	for i, v := range s.voxels {
		ds[i] = Descriptor{X: v.X, Y: v.Y, Z: v.Z, Color: v.Color.Hex()}
	}
	return ds
}

// document is the wrapped file form: {"name": ..., "voxels": [...]}.
type document struct {
	Name   string       `json:"name" yaml:"name"`
	Voxels []Descriptor `json:"voxels" yaml:"voxels"`
}

// DecodeJSON accepts either a bare descriptor array or an object with a "voxels" field.
func DecodeJSON(data []byte) ([]Descriptor, string, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var ds []Descriptor
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, "", fmt.Errorf("decoding voxel array: %w", err)
		}
		return ds, "", nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("decoding voxel document: %w", err)
	}
	if doc.Voxels == nil {
		return nil, "", fmt.Errorf("decoding voxel document: missing voxels")
	}
	return doc.Voxels, doc.Name, nil
}

// DecodeYAML accepts the same shapes as DecodeJSON, in YAML.
func DecodeYAML(data []byte) ([]Descriptor, string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, "", fmt.Errorf("decoding voxel yaml: %w", err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var ds []Descriptor
		if err := node.Content[0].Decode(&ds); err != nil {
			return nil, "", fmt.Errorf("decoding voxel array: %w", err)
		}
		return ds, "", nil
	}

	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, "", fmt.Errorf("decoding voxel document: %w", err)
	}
	if doc.Voxels == nil {
		return nil, "", fmt.Errorf("decoding voxel document: missing voxels")
	}
	return doc.Voxels, doc.Name, nil
}

// LoadFile reads a voxel model from a .json, .yaml or .yml file.
// The returned name is the document name, or the file name without extension.
func LoadFile(path string) (Set, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, "", err
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		ds   []Descriptor
		name string
	)
	switch ext {
	case ".json":
		ds, name, err = DecodeJSON(data)
	case ".yaml", ".yml":
		ds, name, err = DecodeYAML(data)
	default:
		return Set{}, "", fmt.Errorf("unsupported voxel file extension %q", ext)
	}
	if err != nil {
		return Set{}, "", fmt.Errorf("%s: %w", path, err)
	}

	set, err := FromDescriptors(ds)
	if err != nil {
		return Set{}, "", fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return set, name, nil
}
