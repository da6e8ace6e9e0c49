// Package generation turns text prompts into voxel models.
package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/Faultbox/voxelforge/pkg/voxel"
)

var (
	// ErrEmptyPrompt is returned for prompts with no content.
	ErrEmptyPrompt = errors.New("empty prompt")
	// ErrUpstream wraps non-success responses from a generation service.
	ErrUpstream = errors.New("generation service error")
)

// Gateway produces a voxel list for a prompt. Implementations may block.
type Gateway interface {
	Generate(ctx context.Context, prompt string) ([]voxel.Descriptor, error)
}

// Status is the user-visible state of the most recent generation.
type Status int

const (
	StatusIdle Status = iota
	StatusGenerating
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusGenerating:
		return "generating"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func normalize(prompt string) (string, error) {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return "", ErrEmptyPrompt
	}
	return p, nil
}
