package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/gemstone/render"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if cfg.Viewer.Scale != 4 || cfg.Editor.MaxUndo != 64 || !cfg.Watch.Enabled {
			t.Fatalf("embedded defaults not loaded: %+v", cfg)
		}
		if got := cfg.Viewer.Background.NRGBA(); got != (color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}) {
			t.Fatalf("background %v", got)
		}
		if got := cfg.Viewer.OnionTint.NRGBA(); got.A != 0x80 || got.B != 0xff {
			t.Fatalf("onion tint %v", got)
		}
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gemstone.yaml")
	data := []byte("viewer:\n  scale: 2\n  background: \"#102030\"\nexport:\n  format: tiff\nwatch:\n  debounce_ms: 250\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Viewer.Scale != 2 {
		t.Fatalf("scale %d", cfg.Viewer.Scale)
	}
	if got := cfg.Viewer.Background.NRGBA(); got != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Fatalf("background %v", got)
	}
	if cfg.Codec().Format != render.FormatTIFF {
		t.Fatalf("codec %v", cfg.Codec())
	}
	if cfg.Debounce() != 250*time.Millisecond {
		t.Fatalf("debounce %v", cfg.Debounce())
	}
	// unset sections fall back to defaults
	if cfg.Viewer.Width != 640 || cfg.Editor.FrameW != 32 || cfg.Viewer.Crowd != 1 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"bad_yaml", "viewer: [\n"},
		{"bad_color", "viewer:\n  background: \"#zzzzzz\"\n"},
		{"color_not_scalar", "viewer:\n  background: [1, 2]\n"},
		{"bad_format", "export:\n  format: webp\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse([]byte(c.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
