package animation

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/milk9111/gemstone/render"
)

// Codec reads and writes frame images.
type Codec interface {
	Load(path string) (*image.NRGBA, error)
	Save(path string, img *image.NRGBA) error
	// Ext is the file extension, without the dot, used for saved images.
	Ext() string
}

// Manager owns a set of animations keyed by name and persists them as
// images plus a JSON manifest. Construct one per editing session.
type Manager struct {
	animations map[string]*Animation
	codec      Codec
}

// NewManager creates an empty Manager. A nil codec saves PNG files.
func NewManager(codec Codec) *Manager {
	if codec == nil {
		codec = render.Codec{}
	}
	return &Manager{animations: make(map[string]*Animation), codec: codec}
}

// Register stores a under its name, replacing any animation registered with
// the same name.
func (m *Manager) Register(a *Animation) error {
	if a == nil {
		return fmt.Errorf("animation: register nil animation: %w", ErrInvalidArgument)
	}
	if err := validName(a.Name); err != nil {
		return err
	}
	m.animations[a.Name] = a
	return nil
}

// Get returns the animation registered under name.
func (m *Manager) Get(name string) (*Animation, bool) {
	a, ok := m.animations[name]
	return a, ok
}

// Unregister drops the animation registered under name, if any.
func (m *Manager) Unregister(name string) {
	delete(m.animations, name)
}

// Names returns the registered names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.animations))
	for name := range m.animations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered animations.
func (m *Manager) Len() int { return len(m.animations) }

// Save writes every frame of the named animation to dir as
// {name}_frame_{i}.{ext}, then writes the manifest {name}.json. Frame files
// already written are left in place if a later write fails.
func (m *Manager) Save(name, dir string) error {
	a, ok := m.Get(name)
	if !ok {
		return fmt.Errorf("animation: save %q: %w", name, ErrNotFound)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("animation: save %q: %w", name, err)
	}
	man := &Manifest{Name: a.Name, Loop: &a.Loop, Frames: make([]ManifestFrame, 0, a.Len())}
	for i, f := range a.frames {
		file := FrameFileName(a.Name, i, m.codec.Ext())
		if err := m.codec.Save(filepath.Join(dir, file), f.Image); err != nil {
			return fmt.Errorf("animation: save %q frame %d: %w", name, i, err)
		}
		mf := manifestFrame(f)
		mf.File = file
		man.Frames = append(man.Frames, mf)
	}
	return WriteManifest(ManifestPath(dir, a.Name), man)
}

// SaveSheet packs every frame of the named animation left to right into a
// single {name}_sheet.{ext} image and writes a manifest that addresses each
// frame by its rectangle in the sheet.
func (m *Manager) SaveSheet(name, dir string) error {
	a, ok := m.Get(name)
	if !ok {
		return fmt.Errorf("animation: save sheet %q: %w", name, ErrNotFound)
	}
	if a.Len() == 0 {
		return fmt.Errorf("animation: save sheet %q: no frames: %w", name, ErrInvalidArgument)
	}
	imgs := make([]*image.NRGBA, a.Len())
	for i, f := range a.frames {
		imgs[i] = f.Image
	}
	sheet, rects := render.PackHorizontal(imgs)
	file := SheetFileName(a.Name, m.codec.Ext())
	if err := m.codec.Save(filepath.Join(dir, file), sheet); err != nil {
		return fmt.Errorf("animation: save sheet %q: %w", name, err)
	}
	man := &Manifest{Name: a.Name, Loop: &a.Loop, Spritesheet: file, Frames: make([]ManifestFrame, 0, a.Len())}
	for i, f := range a.frames {
		r := rects[i]
		mf := manifestFrame(f)
		mf.Rect = []int{r.Min.X, r.Min.Y, r.Dx(), r.Dy()}
		man.Frames = append(man.Frames, mf)
	}
	return WriteManifest(ManifestPath(dir, a.Name), man)
}

// Load reads the manifest at path, rebuilds its animation and registers it.
// Nothing is registered when any frame fails to load.
func (m *Manager) Load(manifestPath string) (*Animation, error) {
	man, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(manifestPath)

	var sheet *image.NRGBA
	if man.Spritesheet != "" {
		sheet, err = m.codec.Load(filepath.Join(base, man.Spritesheet))
		if err != nil {
			return nil, fmt.Errorf("animation: load sheet %s: %v: %w", man.Spritesheet, err, ErrMissingAsset)
		}
	}

	a := &Animation{Name: man.Name, Loop: *man.Loop, frames: make([]*Frame, 0, len(man.Frames))}
	for i, fr := range man.Frames {
		var img *image.NRGBA
		if sheet != nil && fr.Rect != nil {
			img, err = render.Crop(sheet, fr.rect())
			if err != nil {
				return nil, fmt.Errorf("animation: load %s frame %d: %v: %w", man.Name, i, err, ErrMalformedManifest)
			}
		} else {
			img, err = m.codec.Load(filepath.Join(base, filepath.FromSlash(fr.File)))
			if err != nil {
				return nil, fmt.Errorf("animation: load %s frame %d: %v: %w", man.Name, i, err, ErrMissingAsset)
			}
		}
		f, err := NewFrame(img, *fr.Duration, fr.pivot())
		if err != nil {
			return nil, fmt.Errorf("animation: load %s frame %d: %v: %w", man.Name, i, err, ErrMalformedManifest)
		}
		a.frames = append(a.frames, f)
	}

	m.animations[a.Name] = a
	return a, nil
}
