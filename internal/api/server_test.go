package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/voxelforge/internal/anim"
	"github.com/Faultbox/voxelforge/internal/controller"
	"github.com/Faultbox/voxelforge/internal/generation"
	"github.com/Faultbox/voxelforge/internal/history"
	"github.com/Faultbox/voxelforge/internal/physics"
	"github.com/Faultbox/voxelforge/internal/preset"
	"github.com/Faultbox/voxelforge/internal/studio"
	"github.com/Faultbox/voxelforge/pkg/voxel"
)

func newServer(t *testing.T) (*Server, *studio.Studio, history.Log) {
	t.Helper()
	hist := history.NewMemory(5)
	ctrl := controller.New(physics.NewEngine(physics.DefaultTunables(), physics.WithSeed(5)))
	st := studio.New(ctrl, generation.Procedural{}, hist, preset.Builtin())
	t.Cleanup(func() { st.Close() })
	return New(st, Options{}), st, hist
}

func do(t *testing.T, s *Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("%s %s: invalid json %q", method, path, data)
		}
	}
	return resp.StatusCode, out
}

func settle(st *studio.Studio, phase anim.Phase) {
	deadline := time.Now().Add(5 * time.Second)
	for st.Phase() != phase && time.Now().Before(deadline) {
		st.Update(1.0 / 60)
		time.Sleep(time.Millisecond)
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newServer(t)
	code, body := do(t, s, http.MethodGet, "/health", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("unexpected health response %d %v", code, body)
	}
}

func TestPresetsAndState(t *testing.T) {
	s, st, _ := newServer(t)

	code, body := do(t, s, http.MethodGet, "/presets", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if names, _ := body["presets"].([]any); len(names) != 6 {
		t.Errorf("expected 6 presets, got %v", body["presets"])
	}

	code, body = do(t, s, http.MethodPost, "/presets/cube", "")
	if code != http.StatusAccepted || body["model"] != "cube" || body["phase"] != "hidden" {
		t.Errorf("unexpected select response %d %v", code, body)
	}

	code, _ = do(t, s, http.MethodPost, "/presets/unknown", "")
	if code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown preset, got %d", code)
	}

	settle(st, anim.Assembled)
	_, body = do(t, s, http.MethodGet, "/state", "")
	if body["phase"] != "assembled" || body["voxels"] != float64(64) {
		t.Errorf("unexpected state %v", body)
	}

	_, body = do(t, s, http.MethodGet, "/particles", "")
	if ps, _ := body["particles"].([]any); len(ps) != 64 {
		t.Errorf("expected 64 particles, got %d", len(ps))
	}
}

func TestAssembleDisassembleConflicts(t *testing.T) {
	s, st, _ := newServer(t)

	if code, _ := do(t, s, http.MethodPost, "/assemble", ""); code != http.StatusConflict {
		t.Errorf("expected 409 assembling from hidden, got %d", code)
	}

	st.SelectPreset("tree")
	settle(st, anim.Assembled)

	code, body := do(t, s, http.MethodPost, "/disassemble", "")
	if code != http.StatusAccepted || body["phase"] != "disassembling" {
		t.Errorf("unexpected disassemble response %d %v", code, body)
	}
	if code, _ := do(t, s, http.MethodPost, "/disassemble", ""); code != http.StatusConflict {
		t.Errorf("expected 409 on second disassemble, got %d", code)
	}
}

func TestGenerate(t *testing.T) {
	s, st, hist := newServer(t)

	if code, _ := do(t, s, http.MethodPost, "/generate", `{"prompt":"  "}`); code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty prompt, got %d", code)
	}
	if code, _ := do(t, s, http.MethodPost, "/generate", `{`); code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad json, got %d", code)
	}

	code, body := do(t, s, http.MethodPost, "/generate", `{"prompt":"green tower"}`)
	if code != http.StatusAccepted || body["status"] != "generating" {
		t.Fatalf("unexpected generate response %d %v", code, body)
	}

	settle(st, anim.Assembled)
	entries, _ := hist.List(context.Background())
	if len(entries) != 1 {
		t.Fatalf("expected history entry, got %d", len(entries))
	}

	_, body = do(t, s, http.MethodGet, "/history", "")
	items, _ := body["history"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 history item, got %v", body)
	}
	item := items[0].(map[string]any)
	if item["prompt"] != "green tower" || item["id"] != entries[0].ID {
		t.Errorf("unexpected history item %v", item)
	}
}

func TestHistoryRoutes(t *testing.T) {
	s, _, hist := newServer(t)
	e, _ := hist.Append(context.Background(), history.Entry{
		Prompt: "dot",
		Voxels: []voxel.Descriptor{{Color: "#fff"}},
	})

	code, body := do(t, s, http.MethodPost, "/history/"+e.ID, "")
	if code != http.StatusAccepted || body["model"] != "dot" {
		t.Errorf("unexpected replay response %d %v", code, body)
	}
	if code, _ := do(t, s, http.MethodPost, "/history/missing", ""); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}

	if code, _ := do(t, s, http.MethodDelete, "/history/"+e.ID, ""); code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", code)
	}
	if code, _ := do(t, s, http.MethodDelete, "/history/"+e.ID, ""); code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", code)
	}
	if code, _ := do(t, s, http.MethodDelete, "/history", ""); code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", code)
	}
}
