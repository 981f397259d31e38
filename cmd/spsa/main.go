// Command spsa previews a grid sprite sheet as an animation without writing
// a manifest first.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/gemstone/animation"
	"github.com/milk9111/gemstone/render"
)

const screenSize = 512

type sheetGame struct {
	inst   *animation.Instance
	frames []*ebiten.Image
	tick   float64
}

func (g *sheetGame) Update() error {
	g.tick += 1000 / float64(ebiten.TPS())
	dt := int(g.tick)
	g.tick -= float64(dt)
	g.inst.Advance(dt)
	return nil
}

func (g *sheetGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	if len(g.frames) == 0 {
		return
	}
	frame := g.frames[g.inst.Index()]
	fw := frame.Bounds().Dx()
	fh := frame.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64((screenSize-fw)/2), float64((screenSize-fh)/2))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(frame, op)
}

func (g *sheetGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenSize, screenSize
}

// sheetAnimation cuts count frameW x frameH cells from the sheet at path,
// each shown for 1000/fps milliseconds.
func sheetAnimation(path string, frameW, frameH, count, fps int) (*animation.Animation, error) {
	sheet, err := render.Codec{}.Load(path)
	if err != nil {
		return nil, err
	}
	rects, err := render.SliceGrid(sheet, frameW, frameH, 0, count)
	if err != nil {
		return nil, err
	}
	duration := animation.DefaultDuration
	if fps > 0 {
		duration = max(1000/fps, 1)
	}
	a, err := animation.NewAnimation("sheet", true)
	if err != nil {
		return nil, err
	}
	for _, r := range rects {
		img, err := render.Crop(sheet, r)
		if err != nil {
			return nil, err
		}
		f, err := animation.NewFrame(img, duration, image.Point{})
		if err != nil {
			return nil, err
		}
		a.AddFrame(f)
	}
	return a, nil
}

func main() {
	path := flag.String("sheet", "", "sprite sheet image")
	frameW := flag.Int("w", 128, "frame width")
	frameH := flag.Int("h", 128, "frame height")
	count := flag.Int("count", 0, "number of frames (0 reads the whole sheet)")
	fps := flag.Int("fps", 12, "frames per second")
	flag.Parse()
	if *path == "" {
		log.Fatal("spsa: -sheet is required")
	}

	a, err := sheetAnimation(*path, *frameW, *frameH, *count, *fps)
	if err != nil {
		log.Fatal(err)
	}
	g := &sheetGame{inst: animation.NewInstance(a)}
	for _, f := range a.Frames() {
		g.frames = append(g.frames, ebiten.NewImageFromImage(f.Image))
	}

	ebiten.SetWindowSize(screenSize, screenSize)
	ebiten.SetWindowTitle("Sprite Sheet Preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
