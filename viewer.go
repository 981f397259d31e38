package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/gemstone/animation"
	"github.com/milk9111/gemstone/config"
	"github.com/milk9111/gemstone/watch"
)

// Viewer plays one animation on a row of instances and hot reloads it when
// the manifest or its images change on disk.
type Viewer struct {
	cfg          *config.Config
	manager      *animation.Manager
	manifestPath string

	anim      *animation.Animation
	instances []*animation.Instance

	textures *textureCache
	pivot    *ebiten.Image
	watcher  *watch.Watcher
	ui       *transportUI

	// carry holds the sub-millisecond remainder between ticks.
	carry float64
}

// NewViewer loads the animation at manifestPath, or the built-in demo when
// the path is empty.
func NewViewer(cfg *config.Config, manifestPath string) (*Viewer, error) {
	v := &Viewer{
		cfg:          cfg,
		manager:      animation.NewManager(cfg.Codec()),
		manifestPath: manifestPath,
		textures:     newTextureCache(),
	}

	if manifestPath == "" {
		a, err := demoAnimation()
		if err != nil {
			return nil, err
		}
		if err := v.manager.Register(a); err != nil {
			return nil, err
		}
		v.anim = a
	} else {
		a, err := v.manager.Load(manifestPath)
		if err != nil {
			return nil, err
		}
		v.anim = a
	}

	for i := 0; i < cfg.Viewer.Crowd; i++ {
		v.instances = append(v.instances, animation.NewInstance(v.anim))
	}
	v.stagger()

	v.pivot = ebiten.NewImage(3, 3)
	v.pivot.Fill(color.NRGBA{R: 0xff, G: 0x30, B: 0x30, A: 0xff})

	if cfg.Watch.Enabled && manifestPath != "" {
		w, err := watch.NewWatcher(cfg.Debounce(), filepath.Dir(manifestPath))
		if err != nil {
			log.Printf("watch %s disabled: %v", filepath.Dir(manifestPath), err)
		} else {
			v.watcher = w
		}
	}

	v.ui = newTransportUI(v)
	return v, nil
}

// Title names the animation being shown.
func (v *Viewer) Title() string {
	return v.anim.Name
}

// Close stops the file watcher.
func (v *Viewer) Close() error {
	if v.watcher == nil {
		return nil
	}
	return v.watcher.Close()
}

// stagger offsets each instance so a crowd does not animate in lockstep.
func (v *Viewer) stagger() {
	for i, inst := range v.instances {
		inst.Advance(i * v.cfg.Viewer.CrowdStaggerMs)
	}
}

func (v *Viewer) reload() {
	a, err := v.manager.Load(v.manifestPath)
	if err != nil {
		log.Printf("reload %s: %v", v.manifestPath, err)
		return
	}
	log.Printf("reloaded %s (%d frames)", a.Name, a.Len())
	v.anim = a
	v.textures.Clear()
	for _, inst := range v.instances {
		inst.SetAnimation(a)
	}
	v.stagger()
}

// TogglePlay pauses every instance if the first one is playing and resumes
// them otherwise.
func (v *Viewer) TogglePlay() {
	if len(v.instances) == 0 {
		return
	}
	playing := v.instances[0].Playing()
	for _, inst := range v.instances {
		if playing {
			inst.Pause()
		} else {
			inst.Play()
		}
	}
}

// Reset rewinds every instance.
func (v *Viewer) Reset() {
	for _, inst := range v.instances {
		inst.Reset()
	}
	v.stagger()
}

// Step pauses and moves every instance delta frames, wrapping around.
func (v *Viewer) Step(delta int) {
	n := v.anim.Len()
	if n == 0 {
		return
	}
	for _, inst := range v.instances {
		inst.Pause()
		inst.Seek(((inst.Index()+delta)%n + n) % n)
	}
}

func (v *Viewer) drainWatcher() {
	if v.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case path, ok := <-v.watcher.Events:
			if !ok {
				v.watcher = nil
				return
			}
			log.Printf("changed: %s", path)
			changed = true
			continue
		case err, ok := <-v.watcher.Errors:
			if !ok {
				v.watcher = nil
				return
			}
			log.Printf("watch: %v", err)
			continue
		default:
		}
		break
	}
	if changed {
		v.reload()
	}
}

func (v *Viewer) Update() error {
	v.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.TogglePlay()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		v.Step(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		v.Step(1)
	}

	v.carry += 1000 / float64(ebiten.TPS())
	dt := int(v.carry)
	v.carry -= float64(dt)
	for _, inst := range v.instances {
		inst.Advance(dt)
	}

	v.ui.SetStatus(v.status())
	v.ui.ui.Update()
	return nil
}

func (v *Viewer) status() string {
	if len(v.instances) == 0 || v.anim.Len() == 0 {
		return v.anim.Name + "  (empty)"
	}
	inst := v.instances[0]
	f := inst.CurrentFrame()
	return fmt.Sprintf("%s  %d/%d  %dms  %s", v.anim.Name, inst.Index()+1, v.anim.Len(), f.Duration(), inst.State())
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.cfg.Viewer.Background.NRGBA())

	scale := float64(v.cfg.Viewer.Scale)
	cellW := 0
	for _, f := range v.anim.Frames() {
		if w, _ := f.Size(); w > cellW {
			cellW = w
		}
	}
	cellW = int(float64(cellW)*scale) + 8

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	left := float64(sw-cellW*len(v.instances)) / 2
	for i, inst := range v.instances {
		ox := left + float64(cellW*i) + float64(cellW)/2
		oy := float64(sh) * 0.6

		if v.cfg.Viewer.OnionSkin {
			if prev, ok := v.previousFrame(inst); ok {
				v.drawFrame(screen, prev, ox, oy, scale, v.cfg.Viewer.OnionTint.NRGBA())
			}
		}
		if f := inst.CurrentFrame(); f != nil {
			v.drawFrame(screen, f, ox, oy, scale, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		}
		if v.cfg.Viewer.ShowPivot {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(ox-1, oy-1)
			screen.DrawImage(v.pivot, op)
		}
	}

	v.ui.ui.Draw(screen)
}

// previousFrame returns the frame shown before the instance's current one.
// The first frame of a looping animation wraps to the last.
func (v *Viewer) previousFrame(inst *animation.Instance) (*animation.Frame, bool) {
	idx := inst.Index() - 1
	if idx < 0 {
		if !v.anim.Loop {
			return nil, false
		}
		idx = v.anim.Len() - 1
	}
	if idx == inst.Index() {
		return nil, false
	}
	return v.anim.Frame(idx)
}

// drawFrame draws f with its pivot on (ox, oy).
func (v *Viewer) drawFrame(screen *ebiten.Image, f *animation.Frame, ox, oy, scale float64, tint color.NRGBA) {
	tex := v.textures.Get(f.Image)
	if tex == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(-f.Pivot.X), float64(-f.Pivot.Y))
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(ox, oy)
	op.Filter = ebiten.FilterNearest
	a := float32(tint.A) / 255
	op.ColorScale.Scale(float32(tint.R)/255*a, float32(tint.G)/255*a, float32(tint.B)/255*a, a)
	screen.DrawImage(tex, op)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Viewer.Width, v.cfg.Viewer.Height
}
