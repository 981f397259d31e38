package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/gemstone/animation"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	argv := append([]string{"animtool"}, args...)
	if err := app.Run(context.Background(), argv); err != nil {
		t.Fatalf("animtool %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestNewInfoAndSimulate(t *testing.T) {
	dir := t.TempDir()
	run(t, "new", "--out", dir, "--frames", "3", "--width", "4", "--height", "2", "pose")

	manifest := animation.ManifestPath(dir, "pose")
	info := run(t, "info", manifest)
	if !strings.Contains(info, "pose: 3 frames, 300ms total, loop=true") {
		t.Fatalf("unexpected info output:\n%s", info)
	}
	if !strings.Contains(info, "pose_frame_2.png") || !strings.Contains(info, "total") {
		t.Fatalf("info did not list assets:\n%s", info)
	}

	sim := run(t, "simulate", "--dt", "100", "--ticks", "4", manifest)
	lines := strings.Split(strings.TrimSpace(sim), "\n")
	var ticks []string
	for _, l := range lines {
		if strings.HasPrefix(l, "t=") {
			ticks = append(ticks, l)
		}
	}
	if len(ticks) != 4 {
		t.Fatalf("got %d tick lines:\n%s", len(ticks), sim)
	}
	if !strings.Contains(ticks[3], "frame=1") {
		t.Fatalf("after 400ms of a 300ms loop expected frame 1, got %q", ticks[3])
	}
}

func TestPackSliceAndScale(t *testing.T) {
	dir := t.TempDir()
	run(t, "new", "--out", dir, "--frames", "3", "--width", "4", "--height", "2", "--duration", "40", "pose")
	manifest := animation.ManifestPath(dir, "pose")

	packed := filepath.Join(dir, "packed")
	run(t, "pack", "--out", packed, manifest)
	sheet := filepath.Join(packed, animation.SheetFileName("pose", "png"))
	if _, err := os.Stat(sheet); err != nil {
		t.Fatalf("sheet not written: %v", err)
	}

	sliced := filepath.Join(dir, "sliced")
	run(t, "slice", "--out", sliced, "--name", "cut", "--frame-w", "4", "--frame-h", "2", "--duration", "25", sheet)
	cut, err := animation.NewManager(nil).Load(animation.ManifestPath(sliced, "cut"))
	if err != nil {
		t.Fatalf("Load sliced: %v", err)
	}
	if cut.Len() != 3 || cut.TotalDuration() != 75 {
		t.Fatalf("sliced animation has %d frames, %dms", cut.Len(), cut.TotalDuration())
	}

	scaled := filepath.Join(dir, "scaled")
	run(t, "scale", "--out", scaled, "--factor", "3", manifest)
	big, err := animation.NewManager(nil).Load(animation.ManifestPath(scaled, "pose"))
	if err != nil {
		t.Fatalf("Load scaled: %v", err)
	}
	f, _ := big.Frame(0)
	if w, h := f.Size(); w != 12 || h != 6 || f.Duration() != 40 {
		t.Fatalf("scaled frame %dx%d %dms", w, h, f.Duration())
	}
}

func TestMissingArgument(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	if err := app.Run(context.Background(), []string{"animtool", "info"}); err == nil {
		t.Fatalf("expected an error without a manifest argument")
	}
}

func TestOutlineCommand(t *testing.T) {
	dir := t.TempDir()
	run(t, "new", "--out", dir, "--frames", "1", "--width", "3", "--height", "3", "dot")
	manifest := animation.ManifestPath(dir, "dot")

	m := animation.NewManager(nil)
	a, err := m.Load(manifest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f, _ := a.Frame(0)
	f.Image.SetNRGBA(1, 1, color.NRGBA{A: 0xff})
	if err := m.Save("dot", dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := filepath.Join(dir, "outlined")
	run(t, "outline", "--out", out, "--color", "#00ff00", manifest)
	got, err := animation.NewManager(nil).Load(animation.ManifestPath(out, "dot"))
	if err != nil {
		t.Fatalf("Load outlined: %v", err)
	}
	g, _ := got.Frame(0)
	if g.Image.NRGBAAt(0, 0) != (color.NRGBA{G: 0xff, A: 0xff}) {
		t.Fatalf("corner not outlined: %v", g.Image.NRGBAAt(0, 0))
	}
}

func TestInfoListsSheetAndFileFrames(t *testing.T) {
	dir := t.TempDir()
	run(t, "new", "--out", dir, "--frames", "2", "--width", "4", "--height", "2", "pose")
	manifest := animation.ManifestPath(dir, "pose")
	run(t, "pack", "--out", dir, manifest)

	man, err := animation.ReadManifest(manifest)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	man.Frames = append(man.Frames, animation.ManifestFrame{File: animation.FrameFileName("pose", 1, "png")})
	if err := animation.WriteManifest(manifest, man); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	info := run(t, "info", manifest)
	if !strings.Contains(info, "pose: 3 frames") {
		t.Fatalf("mixed manifest not loaded:\n%s", info)
	}
	for _, name := range []string{animation.SheetFileName("pose", "png"), animation.FrameFileName("pose", 1, "png")} {
		if strings.Count(info, name) != 1 {
			t.Fatalf("info should list %s once:\n%s", name, info)
		}
	}
}
