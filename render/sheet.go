package render

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Crop copies the r sub-rectangle of img into a new zero-origin buffer. r
// must be non-empty and lie inside img's bounds.
func Crop(img *image.NRGBA, r image.Rectangle) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("render: crop nil image")
	}
	if r.Empty() || !r.In(img.Bounds()) {
		return nil, fmt.Errorf("render: crop %v outside %v", r, img.Bounds())
	}
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	copyPixels(out, image.Point{}, img, r)
	return out, nil
}

// PackHorizontal lays imgs out left to right on one sheet, top aligned, and
// returns the sheet with the rectangle each image occupies. Nil entries take
// no space and get an empty rectangle.
func PackHorizontal(imgs []*image.NRGBA) (*image.NRGBA, []image.Rectangle) {
	w, h := 0, 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		b := img.Bounds()
		w += b.Dx()
		if b.Dy() > h {
			h = b.Dy()
		}
	}
	sheet := image.NewNRGBA(image.Rect(0, 0, w, h))
	rects := make([]image.Rectangle, len(imgs))
	x := 0
	for i, img := range imgs {
		if img == nil {
			rects[i] = image.Rect(x, 0, x, 0)
			continue
		}
		b := img.Bounds()
		r := image.Rect(x, 0, x+b.Dx(), b.Dy())
		copyPixels(sheet, r.Min, img, b)
		rects[i] = r
		x += b.Dx()
	}
	return sheet, rects
}

// SliceGrid cuts a sheet into frameW x frameH cells read left to right, top
// to bottom, starting at cell start. count <= 0 reads every remaining cell.
func SliceGrid(sheet *image.NRGBA, frameW, frameH, start, count int) ([]image.Rectangle, error) {
	if sheet == nil || frameW <= 0 || frameH <= 0 {
		return nil, fmt.Errorf("render: slice grid %dx%d: bad frame size", frameW, frameH)
	}
	b := sheet.Bounds()
	cols := b.Dx() / frameW
	rows := b.Dy() / frameH
	maxFrames := cols*rows - start
	if start < 0 || maxFrames <= 0 {
		return nil, fmt.Errorf("render: slice grid: start %d beyond %d cells", start, cols*rows)
	}
	if count <= 0 || count > maxFrames {
		count = maxFrames
	}
	rects := make([]image.Rectangle, count)
	for i := 0; i < count; i++ {
		idx := start + i
		col := idx % cols
		row := idx / cols
		sx := b.Min.X + col*frameW
		sy := b.Min.Y + row*frameH
		rects[i] = image.Rect(sx, sy, sx+frameW, sy+frameH)
	}
	return rects, nil
}

// Scale resizes img by an integer factor with nearest-neighbour sampling so
// pixel art stays crisp.
func Scale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return ToNRGBA(img)
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, b, xdraw.Src, nil)
	return out
}
