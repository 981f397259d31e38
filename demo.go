package main

import (
	"image"
	"image/color"

	"github.com/milk9111/gemstone/animation"
)

// demoAnimation builds a two-frame looping eye blink: open for 100ms,
// closed for 50ms.
func demoAnimation() (*animation.Animation, error) {
	a, err := animation.NewAnimation("blink", true)
	if err != nil {
		return nil, err
	}
	for _, fr := range []struct {
		lid      int
		duration int
	}{{lid: 3, duration: 100}, {lid: 8, duration: 50}} {
		f, err := animation.NewFrame(eyeImage(16, fr.lid), fr.duration, image.Pt(8, 15))
		if err != nil {
			return nil, err
		}
		a.AddFrame(f)
	}
	return a, nil
}

// eyeImage draws a round eye whose upper lid covers the top lid rows.
func eyeImage(size, lid int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	white := color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	iris := color.NRGBA{R: 0x30, G: 0x60, B: 0xc0, A: 0xff}
	skin := color.NRGBA{R: 0xd8, G: 0xa0, B: 0x80, A: 0xff}
	c := float64(size) / 2
	r := c - 1
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - c
			dy := float64(y) + 0.5 - c
			d := dx*dx + dy*dy
			switch {
			case d > r*r:
				continue
			case y < lid:
				img.SetNRGBA(x, y, skin)
			case d <= (r/2.5)*(r/2.5):
				img.SetNRGBA(x, y, iris)
			default:
				img.SetNRGBA(x, y, white)
			}
		}
	}
	return img
}
