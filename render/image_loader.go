package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format names an encoding used when writing images.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("render: unsupported image format %q", s)
	}
}

// Codec loads any format the image package can decode (png, gif, jpeg, bmp,
// tiff) and saves in Format. The zero value saves PNG.
type Codec struct {
	Format Format
}

// Ext returns the file extension for saved images.
func (c Codec) Ext() string {
	if c.Format == "" {
		return string(FormatPNG)
	}
	return string(c.Format)
}

// Load reads and decodes the image at path.
func (c Codec) Load(path string) (*image.NRGBA, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read %s: %w", path, err)
	}
	img, err := DecodeImage(b)
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path, creating parent directories as needed.
func (c Codec) Save(path string, img *image.NRGBA) error {
	if img == nil {
		return fmt.Errorf("render: save %s: nil image", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	switch c.Format {
	case FormatBMP:
		err = bmp.Encode(f, img)
	case FormatTIFF:
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return f.Close()
}

// DecodeImage decodes an encoded image into a zero-origin NRGBA buffer.
func DecodeImage(b []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img), nil
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToNRGBA copies img into a new zero-origin NRGBA buffer owned by the
// caller.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	copyPixels(out, image.Point{}, img, b)
	return out
}

// copyPixels copies the sr area of src to dst at dp. NRGBA sources are
// copied byte for byte so straight alpha survives untouched; anything else
// goes through x/image/draw.
func copyPixels(dst *image.NRGBA, dp image.Point, src image.Image, sr image.Rectangle) {
	s, ok := src.(*image.NRGBA)
	if !ok {
		xdraw.Copy(dst, dp, src, sr, xdraw.Src, nil)
		return
	}
	sr = sr.Intersect(s.Bounds())
	dr := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}.Intersect(dst.Bounds())
	w := dr.Dx() * 4
	for y := 0; y < dr.Dy(); y++ {
		so := s.PixOffset(sr.Min.X, sr.Min.Y+y)
		do := dst.PixOffset(dr.Min.X, dr.Min.Y+y)
		copy(dst.Pix[do:do+w], s.Pix[so:so+w])
	}
}
