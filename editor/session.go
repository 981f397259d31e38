package editor

import (
	"fmt"
	"image"

	"github.com/milk9111/gemstone/animation"
)

// Options configures a Session. Zero values take defaults.
type Options struct {
	MaxUndo         int
	FrameW          int
	FrameH          int
	DefaultDuration int
}

func (o *Options) applyDefaults() {
	if o.MaxUndo <= 0 {
		o.MaxUndo = 64
	}
	if o.FrameW <= 0 {
		o.FrameW = 32
	}
	if o.FrameH <= 0 {
		o.FrameH = 32
	}
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = animation.DefaultDuration
	}
}

// snapshot is a deep copy of the edited state.
type snapshot struct {
	frames   []*animation.Frame
	loop     bool
	selected int
}

// Session edits one animation: it tracks the selected frame, keeps undo and
// redo stacks of full snapshots and owns a preview instance that is paused
// around every structural edit.
type Session struct {
	anim     *animation.Animation
	preview  *animation.Instance
	selected int
	opts     Options

	undoStack []snapshot
	redoStack []snapshot
}

// NewSession starts editing a. The animation is edited in place.
func NewSession(a *animation.Animation, opts Options) (*Session, error) {
	if a == nil {
		return nil, fmt.Errorf("editor: new session: nil animation: %w", animation.ErrInvalidArgument)
	}
	opts.applyDefaults()
	return &Session{
		anim:    a,
		preview: animation.NewInstance(a),
		opts:    opts,
	}, nil
}

// Animation returns the edited animation.
func (s *Session) Animation() *animation.Animation { return s.anim }

// Preview returns the playback instance bound to the edited animation.
func (s *Session) Preview() *animation.Instance { return s.preview }

// Selected returns the selected frame index, 0 when there are no frames.
func (s *Session) Selected() int { return s.selected }

// SelectedFrame returns the selected frame, nil when there are no frames.
func (s *Session) SelectedFrame() *animation.Frame {
	f, _ := s.anim.Frame(s.selected)
	return f
}

// Select moves the selection, clamping i into range.
func (s *Session) Select(i int) {
	n := s.anim.Len()
	switch {
	case n == 0 || i < 0:
		i = 0
	case i >= n:
		i = n - 1
	}
	s.selected = i
}

// CanUndo reports whether Undo has anything to restore.
func (s *Session) CanUndo() bool { return len(s.undoStack) > 0 }

// CanRedo reports whether Redo has anything to restore.
func (s *Session) CanRedo() bool { return len(s.redoStack) > 0 }

// AddBlankFrame appends a transparent frame sized like the selected frame
// (or the configured frame size) and selects it.
func (s *Session) AddBlankFrame() error {
	w, h := s.opts.FrameW, s.opts.FrameH
	if f := s.SelectedFrame(); f != nil {
		w, h = f.Size()
	}
	f, err := animation.NewBlankFrame(w, h, s.opts.DefaultDuration)
	if err != nil {
		return err
	}
	return s.structural(func() error {
		s.anim.AddFrame(f)
		s.selected = s.anim.Len() - 1
		return nil
	})
}

// InsertFrame inserts f after the selection and selects it.
func (s *Session) InsertFrame(f *animation.Frame) error {
	if f == nil {
		return fmt.Errorf("editor: insert nil frame: %w", animation.ErrInvalidArgument)
	}
	at := s.selected + 1
	if s.anim.Len() == 0 {
		at = 0
	}
	return s.structural(func() error {
		if err := s.anim.InsertFrame(at, f); err != nil {
			return err
		}
		s.selected = at
		return nil
	})
}

// DuplicateSelected copies the selected frame in after itself and selects
// the copy. It reports false when there is nothing to duplicate.
func (s *Session) DuplicateSelected() bool {
	if s.anim.Len() == 0 {
		return false
	}
	err := s.structural(func() error {
		if !s.anim.DuplicateFrame(s.selected) {
			return animation.ErrIndexOutOfRange
		}
		s.selected++
		return nil
	})
	return err == nil
}

// DeleteSelected removes the selected frame and selects the one before it.
func (s *Session) DeleteSelected() bool {
	if s.anim.Len() == 0 {
		return false
	}
	err := s.structural(func() error {
		if !s.anim.RemoveFrame(s.selected) {
			return animation.ErrIndexOutOfRange
		}
		s.Select(s.selected - 1)
		return nil
	})
	return err == nil
}

// MoveSelected moves the selected frame to index to. The selection follows
// the frame.
func (s *Session) MoveSelected(to int) bool {
	if to < 0 || to >= s.anim.Len() || to == s.selected {
		return false
	}
	err := s.structural(func() error {
		sel, ok := s.anim.ReorderFrame(s.selected, to, s.selected)
		if !ok {
			return animation.ErrIndexOutOfRange
		}
		s.selected = sel
		return nil
	})
	return err == nil
}

// SetLoop changes the loop flag.
func (s *Session) SetLoop(loop bool) {
	if s.anim.Loop == loop {
		return
	}
	s.pushUndo()
	s.anim.Loop = loop
}

// SetDuration changes the duration of the selected frame.
func (s *Session) SetDuration(ms int) error {
	f := s.SelectedFrame()
	if f == nil {
		return fmt.Errorf("editor: set duration: no frame selected: %w", animation.ErrIndexOutOfRange)
	}
	if ms <= 0 {
		return fmt.Errorf("editor: set duration %d: %w", ms, animation.ErrInvalidArgument)
	}
	s.pushUndo()
	return f.SetDuration(ms)
}

// SetPivot changes the pivot of the selected frame.
func (s *Session) SetPivot(p image.Point) error {
	f := s.SelectedFrame()
	if f == nil {
		return fmt.Errorf("editor: set pivot: no frame selected: %w", animation.ErrIndexOutOfRange)
	}
	s.pushUndo()
	f.Pivot = p
	return nil
}

// EditPixels runs fn against the selected frame's image as one undoable
// step.
func (s *Session) EditPixels(fn func(img *image.NRGBA)) error {
	if fn == nil {
		return fmt.Errorf("editor: edit pixels: nil func: %w", animation.ErrInvalidArgument)
	}
	f := s.SelectedFrame()
	if f == nil {
		return fmt.Errorf("editor: edit pixels: no frame selected: %w", animation.ErrIndexOutOfRange)
	}
	s.pushUndo()
	fn(f.Image)
	return nil
}

// Undo restores the state before the last edit.
func (s *Session) Undo() bool {
	n := len(s.undoStack)
	if n == 0 {
		return false
	}
	snap := s.undoStack[n-1]
	s.undoStack = s.undoStack[:n-1]
	s.redoStack = append(s.redoStack, s.capture())
	s.restore(snap)
	return true
}

// Redo reapplies the last undone edit.
func (s *Session) Redo() bool {
	n := len(s.redoStack)
	if n == 0 {
		return false
	}
	snap := s.redoStack[n-1]
	s.redoStack = s.redoStack[:n-1]
	s.undoStack = append(s.undoStack, s.capture())
	s.restore(snap)
	return true
}

// structural applies a change to the frame list with preview playback
// paused, then rebinds the preview so its cursor is valid again. The undo
// stack only records changes that succeed; fn must leave the animation
// untouched when it returns an error.
func (s *Session) structural(fn func() error) error {
	before := s.capture()
	wasPlaying := s.preview.Playing()
	s.preview.Pause()
	if err := fn(); err != nil {
		if wasPlaying {
			s.preview.Play()
		}
		return err
	}
	s.pushSnapshot(before)
	s.preview.SetAnimation(s.anim)
	if !wasPlaying {
		s.preview.Pause()
	}
	return nil
}

func (s *Session) pushUndo() {
	s.pushSnapshot(s.capture())
}

func (s *Session) pushSnapshot(snap snapshot) {
	s.undoStack = append(s.undoStack, snap)
	if len(s.undoStack) > s.opts.MaxUndo {
		// drop oldest
		s.undoStack = s.undoStack[1:]
	}
	s.redoStack = s.redoStack[:0]
}

func (s *Session) capture() snapshot {
	c := s.anim.Clone()
	return snapshot{frames: c.Frames(), loop: s.anim.Loop, selected: s.selected}
}

func (s *Session) restore(snap snapshot) {
	wasPlaying := s.preview.Playing()
	s.preview.Pause()
	for s.anim.Len() > 0 {
		s.anim.RemoveFrame(s.anim.Len() - 1)
	}
	// snap is dropped after restore; its frames are taken over as-is
	for _, f := range snap.frames {
		s.anim.AddFrame(f)
	}
	s.anim.Loop = snap.loop
	s.Select(snap.selected)
	s.preview.SetAnimation(s.anim)
	if !wasPlaying {
		s.preview.Pause()
	}
}
