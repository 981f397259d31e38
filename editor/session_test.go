package editor

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/milk9111/gemstone/animation"
	"github.com/milk9111/gemstone/render"
)

func frame(t *testing.T, label uint8, w, h int) *animation.Frame {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: label, A: 0xff})
	f, err := animation.NewFrame(img, 100, image.Point{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	return f
}

func labels(a *animation.Animation) []uint8 {
	var out []uint8
	for _, f := range a.Frames() {
		out = append(out, f.Image.NRGBAAt(0, 0).R)
	}
	return out
}

func sameLabels(got []uint8, want ...uint8) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func newSession(t *testing.T, ls ...uint8) *Session {
	t.Helper()
	a, err := animation.NewAnimation("edit", true)
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}
	for _, l := range ls {
		a.AddFrame(frame(t, l, 4, 4))
	}
	s, err := NewSession(a, Options{MaxUndo: 3, FrameW: 8, FrameH: 6})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionNil(t *testing.T) {
	if _, err := NewSession(nil, Options{}); !errors.Is(err, animation.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAddBlankFrame(t *testing.T) {
	s := newSession(t)
	if err := s.AddBlankFrame(); err != nil {
		t.Fatalf("AddBlankFrame: %v", err)
	}
	if w, h := s.SelectedFrame().Size(); w != 8 || h != 6 {
		t.Fatalf("blank frame on empty animation is %dx%d", w, h)
	}

	s = newSession(t, 1, 2)
	if err := s.AddBlankFrame(); err != nil {
		t.Fatalf("AddBlankFrame: %v", err)
	}
	if s.Selected() != 2 || s.Animation().Len() != 3 {
		t.Fatalf("selected %d len %d", s.Selected(), s.Animation().Len())
	}
	if w, h := s.SelectedFrame().Size(); w != 4 || h != 4 {
		t.Fatalf("blank frame not sized like the selection: %dx%d", w, h)
	}
}

func TestDuplicateAndDeleteSelection(t *testing.T) {
	s := newSession(t, 1, 2, 3)
	s.Select(1)
	if !s.DuplicateSelected() {
		t.Fatalf("DuplicateSelected = false")
	}
	if s.Selected() != 2 || !sameLabels(labels(s.Animation()), 1, 2, 2, 3) {
		t.Fatalf("after duplicate: selected %d frames %v", s.Selected(), labels(s.Animation()))
	}

	s.Select(0)
	if !s.DeleteSelected() {
		t.Fatalf("DeleteSelected = false")
	}
	if s.Selected() != 0 || !sameLabels(labels(s.Animation()), 2, 2, 3) {
		t.Fatalf("after delete: selected %d frames %v", s.Selected(), labels(s.Animation()))
	}

	s.Select(2)
	s.DeleteSelected()
	if s.Selected() != 1 {
		t.Fatalf("delete did not select the previous frame: %d", s.Selected())
	}

	empty := newSession(t)
	if empty.DuplicateSelected() || empty.DeleteSelected() {
		t.Fatalf("edits on an empty animation reported success")
	}
}

func TestMoveSelectedFollowsFrame(t *testing.T) {
	s := newSession(t, 'A', 'B', 'C', 'D')
	s.Select(0)
	if !s.MoveSelected(3) {
		t.Fatalf("MoveSelected = false")
	}
	if s.Selected() != 3 || !sameLabels(labels(s.Animation()), 'B', 'C', 'D', 'A') {
		t.Fatalf("selected %d frames %q", s.Selected(), labels(s.Animation()))
	}
	if s.MoveSelected(4) || s.MoveSelected(3) {
		t.Fatalf("invalid move reported success")
	}
}

func TestUndoRedo(t *testing.T) {
	s := newSession(t, 1, 2)
	s.Select(1)
	s.DuplicateSelected()
	if err := s.SetDuration(40); err != nil {
		t.Fatalf("SetDuration: %v", err)
	}
	s.SetLoop(false)

	if !s.Undo() || !s.Animation().Loop {
		t.Fatalf("undo of loop change failed")
	}
	if !s.Undo() || s.SelectedFrame().Duration() != 100 {
		t.Fatalf("undo of duration change failed")
	}
	if !s.Undo() || !sameLabels(labels(s.Animation()), 1, 2) || s.Selected() != 1 {
		t.Fatalf("undo of duplicate failed: %v selected %d", labels(s.Animation()), s.Selected())
	}
	if s.Undo() {
		t.Fatalf("undo past the first edit succeeded")
	}

	if !s.Redo() || !sameLabels(labels(s.Animation()), 1, 2, 2) || s.Selected() != 2 {
		t.Fatalf("redo of duplicate failed")
	}
	if !s.Redo() || s.SelectedFrame().Duration() != 40 {
		t.Fatalf("redo of duration change failed")
	}

	s.DeleteSelected()
	if s.CanRedo() {
		t.Fatalf("a new edit must clear the redo stack")
	}
}

func TestUndoRestoresPixels(t *testing.T) {
	s := newSession(t, 5)
	err := s.EditPixels(func(img *image.NRGBA) {
		img.SetNRGBA(0, 0, color.NRGBA{R: 77, A: 0xff})
	})
	if err != nil {
		t.Fatalf("EditPixels: %v", err)
	}
	if labels(s.Animation())[0] != 77 {
		t.Fatalf("edit not applied")
	}
	s.Undo()
	if labels(s.Animation())[0] != 5 {
		t.Fatalf("undo did not restore pixels")
	}
}

func TestUndoStackIsCapped(t *testing.T) {
	s := newSession(t, 1)
	for i := 0; i < 5; i++ {
		if err := s.SetPivot(image.Pt(i, i)); err != nil {
			t.Fatalf("SetPivot: %v", err)
		}
	}
	undone := 0
	for s.Undo() {
		undone++
	}
	if undone != 3 {
		t.Fatalf("undid %d steps, want 3", undone)
	}
	if s.SelectedFrame().Pivot != image.Pt(1, 1) {
		t.Fatalf("oldest kept state has pivot %v", s.SelectedFrame().Pivot)
	}
}

func TestStructuralEditsKeepPreviewValid(t *testing.T) {
	s := newSession(t, 1, 2, 3)
	p := s.Preview()
	p.Advance(250)
	if p.Index() != 2 {
		t.Fatalf("preview index %d", p.Index())
	}
	s.Select(2)
	s.DeleteSelected()
	s.Select(1)
	s.DeleteSelected()
	if p.Index() >= s.Animation().Len() {
		t.Fatalf("preview index %d past %d frames", p.Index(), s.Animation().Len())
	}
	if !p.Playing() {
		t.Fatalf("preview stopped by an edit")
	}

	p.Pause()
	s.AddBlankFrame()
	if p.Playing() {
		t.Fatalf("edit resumed a paused preview")
	}
}

func TestSelectedFrameEditsOnEmpty(t *testing.T) {
	s := newSession(t)
	if err := s.SetDuration(10); !errors.Is(err, animation.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.SetPivot(image.Pt(1, 1)); !errors.Is(err, animation.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.CopySelected(&memClipboard{}); !errors.Is(err, animation.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

type memClipboard struct {
	data []byte
}

func (c *memClipboard) ReadImage() ([]byte, error) {
	if len(c.data) == 0 {
		return nil, errors.New("empty")
	}
	return c.data, nil
}

func (c *memClipboard) WriteImage(png []byte) error {
	c.data = append([]byte(nil), png...)
	return nil
}

func TestCopyPaste(t *testing.T) {
	s := newSession(t, 1, 2)
	cb := &memClipboard{}
	if err := s.Paste(cb); err == nil {
		t.Fatalf("paste from empty clipboard succeeded")
	}
	s.Select(0)
	if err := s.CopySelected(cb); err != nil {
		t.Fatalf("CopySelected: %v", err)
	}
	s.Select(1)
	if err := s.Paste(cb); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if s.Selected() != 2 || !sameLabels(labels(s.Animation()), 1, 2, 1) {
		t.Fatalf("selected %d frames %v", s.Selected(), labels(s.Animation()))
	}
}

func TestExportSheet(t *testing.T) {
	s := newSession(t, 1, 2, 3)
	path := filepath.Join(t.TempDir(), "out", "edit_sheet.png")
	rects, err := s.ExportSheet(path, render.Codec{})
	if err != nil {
		t.Fatalf("ExportSheet: %v", err)
	}
	if len(rects) != 3 || rects[2] != image.Rect(8, 0, 12, 4) {
		t.Fatalf("rects %v", rects)
	}
	sheet, err := render.Codec{}.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sheet.Bounds() != image.Rect(0, 0, 12, 4) || sheet.NRGBAAt(8, 0).R != 3 {
		t.Fatalf("unexpected sheet %v", sheet.Bounds())
	}

	if _, err := newSession(t).ExportSheet(path, render.Codec{}); !errors.Is(err, animation.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestFailedInsertLeavesHistoryAlone(t *testing.T) {
	s := newSession(t, 1, 2)
	if err := s.SetDuration(30); err != nil {
		t.Fatalf("SetDuration: %v", err)
	}
	s.Undo()
	if s.CanUndo() || !s.CanRedo() {
		t.Fatalf("unexpected history before the failed edit")
	}

	s.selected = 5
	if err := s.InsertFrame(frame(t, 9, 4, 4)); !errors.Is(err, animation.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if s.CanUndo() {
		t.Fatalf("failed insert pushed an undo entry")
	}
	if !s.CanRedo() {
		t.Fatalf("failed insert cleared the redo stack")
	}
	if !sameLabels(labels(s.Animation()), 1, 2) {
		t.Fatalf("frames changed: %v", labels(s.Animation()))
	}
	if !s.Preview().Playing() {
		t.Fatalf("failed insert left the preview paused")
	}
}

func TestEditPixelsNilFunc(t *testing.T) {
	s := newSession(t, 1)
	if err := s.EditPixels(nil); !errors.Is(err, animation.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if s.CanUndo() {
		t.Fatalf("rejected edit pushed an undo entry")
	}
}
