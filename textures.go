package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// textureCache holds one GPU image per frame buffer so frames are uploaded
// once rather than on every draw.
type textureCache struct {
	images map[*image.NRGBA]*ebiten.Image
}

func newTextureCache() *textureCache {
	return &textureCache{images: map[*image.NRGBA]*ebiten.Image{}}
}

// Get returns the texture for img, uploading it on first use.
func (c *textureCache) Get(img *image.NRGBA) *ebiten.Image {
	if img == nil {
		return nil
	}
	if tex, ok := c.images[img]; ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(img)
	c.images[img] = tex
	return tex
}

// Clear drops every texture, e.g. after the animation was reloaded.
func (c *textureCache) Clear() {
	for k, tex := range c.images {
		tex.Deallocate()
		delete(c.images, k)
	}
}
