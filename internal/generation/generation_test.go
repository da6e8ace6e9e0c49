package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Faultbox/voxelforge/pkg/voxel"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusGenerating, "generating"},
		{StatusError, "error"},
		{StatusSuccess, "success"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestProceduralDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := Procedural{}.Generate(ctx, "a red mushroom")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Procedural{}.Generate(ctx, "  A red mushroom ")
	if len(a) == 0 {
		t.Fatal("expected voxels")
	}
	if len(a) != len(b) {
		t.Fatalf("expected identical output, got %d and %d voxels", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("voxel %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	if _, err := voxel.FromDescriptors(a); err != nil {
		t.Errorf("expected valid descriptors: %v", err)
	}
	reds := 0
	for _, d := range a {
		if d.Color == "#d92b3a" {
			reds++
		}
	}
	if reds == 0 {
		t.Error("expected the prompt's color word to pick the palette")
	}
}

func TestProceduralErrors(t *testing.T) {
	if _, err := (Procedural{}).Generate(context.Background(), "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("expected ErrEmptyPrompt, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Procedural{}).Generate(ctx, "tree"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHTTPGateway(t *testing.T) {
	var gotPrompt, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"voxels":[{"x":0,"y":0,"z":0,"color":"#ff0000"},{"x":0,"y":1,"z":0,"color":"#00f"}]}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "secret", 5*time.Second)
	ds, err := g.Generate(context.Background(), " castle ")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ds) != 2 || ds[1].Color != "#00f" {
		t.Errorf("unexpected descriptors %+v", ds)
	}
	if gotPrompt != "castle" {
		t.Errorf("expected trimmed prompt, got %q", gotPrompt)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
}

func TestHTTPGatewayBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"x":1,"y":2,"z":3,"color":"#abcdef"}]`))
	}))
	defer srv.Close()

	ds, err := NewHTTPGateway(srv.URL, "", 5*time.Second).Generate(context.Background(), "dot")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ds) != 1 || ds[0].X != 1 {
		t.Errorf("unexpected descriptors %+v", ds)
	}
}

func TestHTTPGatewayFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"bad json", http.StatusOK, `not json`},
		{"bad color", http.StatusOK, `[{"x":0,"y":0,"z":0,"color":"nope"}]`},
		{"missing voxels", http.StatusOK, `{"name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPGateway(srv.URL, "", 5*time.Second).Generate(context.Background(), "x")
			if !errors.Is(err, ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
		})
	}
}
