package editor

import (
	"fmt"
	"image"
	"sync"

	"golang.design/x/clipboard"

	"github.com/milk9111/gemstone/animation"
	"github.com/milk9111/gemstone/render"
)

// Clipboard carries PNG-encoded images between sessions and applications.
type Clipboard interface {
	ReadImage() ([]byte, error)
	WriteImage(png []byte) error
}

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

func initClipboard() error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	return clipboardErr
}

func (SystemClipboard) ReadImage() ([]byte, error) {
	if err := initClipboard(); err != nil {
		return nil, fmt.Errorf("editor: clipboard: %w", err)
	}
	b := clipboard.Read(clipboard.FmtImage)
	if len(b) == 0 {
		return nil, fmt.Errorf("editor: clipboard holds no image")
	}
	return b, nil
}

func (SystemClipboard) WriteImage(png []byte) error {
	if err := initClipboard(); err != nil {
		return fmt.Errorf("editor: clipboard: %w", err)
	}
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

// CopySelected puts the selected frame's image on cb.
func (s *Session) CopySelected(cb Clipboard) error {
	f := s.SelectedFrame()
	if f == nil {
		return fmt.Errorf("editor: copy: no frame selected: %w", animation.ErrIndexOutOfRange)
	}
	b, err := render.EncodePNG(f.Image)
	if err != nil {
		return fmt.Errorf("editor: copy: %w", err)
	}
	return cb.WriteImage(b)
}

// Paste inserts the image on cb as a new frame after the selection.
func (s *Session) Paste(cb Clipboard) error {
	b, err := cb.ReadImage()
	if err != nil {
		return err
	}
	img, err := render.DecodeImage(b)
	if err != nil {
		return fmt.Errorf("editor: paste: %w", err)
	}
	f, err := animation.NewFrame(img, s.opts.DefaultDuration, image.Point{})
	if err != nil {
		return err
	}
	return s.InsertFrame(f)
}
