package editor

import (
	"fmt"
	"image"

	"github.com/milk9111/gemstone/animation"
	"github.com/milk9111/gemstone/render"
)

// ExportSheet packs every frame left to right into one image written to
// path with codec, and returns the rectangle of each frame in the sheet.
func (s *Session) ExportSheet(path string, codec animation.Codec) ([]image.Rectangle, error) {
	if s.anim.Len() == 0 {
		return nil, fmt.Errorf("editor: export sheet: no frames: %w", animation.ErrInvalidArgument)
	}
	frames := s.anim.Frames()
	imgs := make([]*image.NRGBA, len(frames))
	for i, f := range frames {
		imgs[i] = f.Image
	}
	sheet, rects := render.PackHorizontal(imgs)
	if err := codec.Save(path, sheet); err != nil {
		return nil, fmt.Errorf("editor: export sheet: %w", err)
	}
	return rects, nil
}
