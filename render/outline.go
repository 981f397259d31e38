package render

import (
	"image"
	"image/color"
)

// Outline returns a copy of src where every transparent pixel within
// thickness pixels (Chebyshev distance) of an opaque pixel is painted c.
// Opaque pixels are copied unchanged.
func Outline(src *image.NRGBA, thickness int, c color.NRGBA) *image.NRGBA {
	out := ToNRGBA(src)
	if thickness <= 0 {
		return out
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	isOpaque := func(x, y int) bool {
		return src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)+3] != 0
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isOpaque(x, y) {
				continue
			}
			ymin, ymax := max(y-thickness, 0), min(y+thickness, h-1)
			xmin, xmax := max(x-thickness, 0), min(x+thickness, w-1)
			found := false
			for yy := ymin; yy <= ymax && !found; yy++ {
				for xx := xmin; xx <= xmax; xx++ {
					if isOpaque(xx, yy) {
						found = true
						break
					}
				}
			}
			if found {
				out.SetNRGBA(x, y, c)
			}
		}
	}
	return out
}
