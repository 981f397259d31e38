package animation

import (
	"fmt"
	"image"
)

// DefaultDuration is the display time of a frame, in milliseconds, when none
// is given.
const DefaultDuration = 100

// Frame is one raster image plus how long it is shown and the point a
// renderer anchors it on.
type Frame struct {
	Image *image.NRGBA
	Pivot image.Point

	duration int
}

// NewFrame creates a Frame that takes ownership of img. durationMs must be
// positive.
func NewFrame(img *image.NRGBA, durationMs int, pivot image.Point) (*Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("animation: new frame: nil image: %w", ErrInvalidArgument)
	}
	if durationMs <= 0 {
		return nil, fmt.Errorf("animation: new frame: duration %d: %w", durationMs, ErrInvalidArgument)
	}
	return &Frame{Image: img, Pivot: pivot, duration: durationMs}, nil
}

// NewBlankFrame creates a fully transparent w x h frame.
func NewBlankFrame(w, h, durationMs int) (*Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("animation: new blank frame: size %dx%d: %w", w, h, ErrInvalidArgument)
	}
	return NewFrame(image.NewNRGBA(image.Rect(0, 0, w, h)), durationMs, image.Point{})
}

// Duration returns the display time in milliseconds.
func (f *Frame) Duration() int { return f.duration }

// SetDuration changes the display time. durationMs must be positive.
func (f *Frame) SetDuration(durationMs int) error {
	if durationMs <= 0 {
		return fmt.Errorf("animation: set duration %d: %w", durationMs, ErrInvalidArgument)
	}
	f.duration = durationMs
	return nil
}

// Size returns the pixel width and height of the frame image.
func (f *Frame) Size() (int, int) {
	if f == nil || f.Image == nil {
		return 0, 0
	}
	b := f.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Clone returns a deep copy. The pixel buffer is copied, so edits to the
// clone never reach f.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	out := &Frame{Pivot: f.Pivot, duration: f.duration}
	if f.Image != nil {
		img := &image.NRGBA{
			Pix:    make([]uint8, len(f.Image.Pix)),
			Stride: f.Image.Stride,
			Rect:   f.Image.Rect,
		}
		copy(img.Pix, f.Image.Pix)
		out.Image = img
	}
	return out
}
