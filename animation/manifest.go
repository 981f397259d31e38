package animation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// Manifest is the JSON document describing one saved animation.
type Manifest struct {
	Name        string          `json:"name"`
	Loop        *bool           `json:"loop,omitempty"`
	Spritesheet string          `json:"spritesheet,omitempty"`
	Frames      []ManifestFrame `json:"frames"`
}

// ManifestFrame references either a standalone image File or a Rect
// ([x, y, w, h]) inside the manifest's spritesheet.
type ManifestFrame struct {
	File     string `json:"file,omitempty"`
	Rect     []int  `json:"rect,omitempty"`
	Duration *int   `json:"duration,omitempty"`
	Pivot    []int  `json:"pivot,omitempty"`
}

// ManifestPath returns the manifest file name used for an animation saved
// into dir.
func ManifestPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// FrameFileName returns the image file name of frame i of an animation.
func FrameFileName(name string, i int, ext string) string {
	return fmt.Sprintf("%s_frame_%d.%s", name, i, ext)
}

// SheetFileName returns the packed sheet file name of an animation.
func SheetFileName(name, ext string) string {
	return fmt.Sprintf("%s_sheet.%s", name, ext)
}

// ReadManifest parses and validates the manifest at path. Defaults are
// filled in: loop true, duration DefaultDuration, pivot [0,0].
func ReadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("animation: read manifest %s: %w", path, ErrMissingAsset)
	}
	return ParseManifest(b)
}

// ParseManifest decodes and validates manifest bytes.
func ParseManifest(b []byte) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("animation: decode manifest: %v: %w", err, ErrMalformedManifest)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Name == "" {
		return fmt.Errorf("animation: manifest has no name: %w", ErrMalformedManifest)
	}
	if err := validName(m.Name); err != nil {
		return fmt.Errorf("animation: manifest name %q: %w", m.Name, ErrMalformedManifest)
	}
	if m.Frames == nil {
		return fmt.Errorf("animation: manifest %s has no frames: %w", m.Name, ErrMalformedManifest)
	}
	if m.Loop == nil {
		loop := true
		m.Loop = &loop
	}
	for i := range m.Frames {
		fr := &m.Frames[i]
		switch {
		case m.Spritesheet != "" && fr.Rect != nil:
			if len(fr.Rect) != 4 || fr.Rect[2] <= 0 || fr.Rect[3] <= 0 {
				return fmt.Errorf("animation: manifest %s frame %d: bad rect %v: %w", m.Name, i, fr.Rect, ErrMalformedManifest)
			}
		case fr.File != "":
		default:
			return fmt.Errorf("animation: manifest %s frame %d: no file or rect: %w", m.Name, i, ErrMalformedManifest)
		}
		if fr.Duration == nil {
			d := DefaultDuration
			fr.Duration = &d
		}
		if *fr.Duration <= 0 {
			return fmt.Errorf("animation: manifest %s frame %d: duration %d: %w", m.Name, i, *fr.Duration, ErrMalformedManifest)
		}
		if fr.Pivot == nil {
			fr.Pivot = []int{0, 0}
		}
		if len(fr.Pivot) != 2 {
			return fmt.Errorf("animation: manifest %s frame %d: bad pivot %v: %w", m.Name, i, fr.Pivot, ErrMalformedManifest)
		}
	}
	return nil
}

// rect returns the frame's sheet rectangle.
func (fr ManifestFrame) rect() image.Rectangle {
	return image.Rect(fr.Rect[0], fr.Rect[1], fr.Rect[0]+fr.Rect[2], fr.Rect[1]+fr.Rect[3])
}

func (fr ManifestFrame) pivot() image.Point {
	return image.Pt(fr.Pivot[0], fr.Pivot[1])
}

// WriteManifest writes m to path as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("animation: write manifest %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("animation: write manifest %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("animation: encode manifest %s: %w", path, err)
	}
	return f.Close()
}

func manifestFrame(f *Frame) ManifestFrame {
	d := f.duration
	return ManifestFrame{Duration: &d, Pivot: []int{f.Pivot.X, f.Pivot.Y}}
}
