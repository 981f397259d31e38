package animation

import (
	"fmt"
	"strings"
)

// Animation is a named, ordered sequence of frames. Insertion order is
// playback order.
//
// An Animation may hold zero frames; callers check Len before playback or
// export. Structural edits (insert, remove, duplicate, reorder) are not safe
// while an Instance is advancing against the same Animation, so pause
// playback around them.
type Animation struct {
	Name string
	Loop bool

	frames []*Frame
}

// NewAnimation creates an empty Animation. The name is used as a file name
// prefix on save, so it must be non-empty and free of path separators.
func NewAnimation(name string, loop bool) (*Animation, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return &Animation{Name: name, Loop: loop}, nil
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("animation: empty name: %w", ErrInvalidArgument)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("animation: name %q contains a path element: %w", name, ErrInvalidArgument)
	}
	return nil
}

// Len returns the number of frames.
func (a *Animation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.frames)
}

// Frame returns the frame at i.
func (a *Animation) Frame(i int) (*Frame, bool) {
	if a == nil || i < 0 || i >= len(a.frames) {
		return nil, false
	}
	return a.frames[i], true
}

// Frames returns the frames in playback order. The slice is a copy; the
// frames are not.
func (a *Animation) Frames() []*Frame {
	if a == nil {
		return nil
	}
	return append([]*Frame(nil), a.frames...)
}

// TotalDuration returns the sum of all frame durations in milliseconds.
func (a *Animation) TotalDuration() int {
	total := 0
	for _, f := range a.Frames() {
		total += f.duration
	}
	return total
}

// AddFrame appends f.
func (a *Animation) AddFrame(f *Frame) {
	if f == nil {
		return
	}
	a.frames = append(a.frames, f)
}

// InsertFrame inserts f at index, shifting later frames right. index may
// equal Len to append; anything outside [0, Len] fails with
// ErrIndexOutOfRange instead of clamping.
func (a *Animation) InsertFrame(index int, f *Frame) error {
	if f == nil {
		return fmt.Errorf("animation: insert frame: nil frame: %w", ErrInvalidArgument)
	}
	if index < 0 || index > len(a.frames) {
		return fmt.Errorf("animation: insert frame at %d of %d: %w", index, len(a.frames), ErrIndexOutOfRange)
	}
	a.frames = append(a.frames, nil)
	copy(a.frames[index+1:], a.frames[index:])
	a.frames[index] = f
	return nil
}

// RemoveFrame removes the frame at index. A stale index is ignored and
// reported as false.
func (a *Animation) RemoveFrame(index int) bool {
	if index < 0 || index >= len(a.frames) {
		return false
	}
	copy(a.frames[index:], a.frames[index+1:])
	a.frames[len(a.frames)-1] = nil
	a.frames = a.frames[:len(a.frames)-1]
	return true
}

// DuplicateFrame inserts a deep copy of the frame at index right after it.
// A stale index is ignored and reported as false.
func (a *Animation) DuplicateFrame(index int) bool {
	if index < 0 || index >= len(a.frames) {
		return false
	}
	// index+1 is always within [0, Len] here
	_ = a.InsertFrame(index+1, a.frames[index].Clone())
	return true
}

// ReorderFrame moves the frame at from to position to, keeping the relative
// order of every other frame. current is a selection index the caller
// tracks; the adjusted value is returned so it keeps pointing at the same
// frame. Out of range indices leave everything untouched and return
// (current, false).
func (a *Animation) ReorderFrame(from, to, current int) (int, bool) {
	n := len(a.frames)
	if from < 0 || from >= n || to < 0 || to >= n {
		return current, false
	}
	if from != to {
		f := a.frames[from]
		if from < to {
			copy(a.frames[from:to], a.frames[from+1:to+1])
		} else {
			copy(a.frames[to+1:from+1], a.frames[to:from])
		}
		a.frames[to] = f
	}
	switch {
	case from == current:
		current = to
	case from < current && current <= to:
		current--
	case to <= current && current < from:
		current++
	}
	return current, true
}

// SetFrameDuration changes the duration of the frame at index.
func (a *Animation) SetFrameDuration(index, durationMs int) error {
	f, ok := a.Frame(index)
	if !ok {
		return fmt.Errorf("animation: set duration of frame %d: %w", index, ErrIndexOutOfRange)
	}
	return f.SetDuration(durationMs)
}

// Clone deep-copies the animation and all of its frames.
func (a *Animation) Clone() *Animation {
	if a == nil {
		return nil
	}
	out := &Animation{Name: a.Name, Loop: a.Loop, frames: make([]*Frame, len(a.frames))}
	for i, f := range a.frames {
		out.frames[i] = f.Clone()
	}
	return out
}
