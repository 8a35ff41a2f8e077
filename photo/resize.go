package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth = 800
	DefaultQuality  = 70

	// MaxPixels bounds the decoded size of an upload, about 200MB of RGBA
	MaxPixels = 50_000_000
)

var ErrImageDecodeFailed = errors.New("image could not be decoded")

type Image struct {
	Data   []byte
	Width  int
	Height int
}

// Downscale decodes a JPEG, PNG, GIF or WebP image, shrinks it to at most
// maxWidth pixels wide keeping the aspect ratio and re-encodes it as JPEG.
func Downscale(data []byte, maxWidth int, quality int) (Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrImageDecodeFailed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Image{}, fmt.Errorf("%w: %s image of %dx%d pixels", ErrImageDecodeFailed, format, cfg.Width, cfg.Height)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrImageDecodeFailed, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Image{}, fmt.Errorf("%w: empty %s image", ErrImageDecodeFailed, format)
	}

	var img image.Image = src
	if maxWidth > 0 && w > maxWidth {
		h = h * maxWidth / w
		if h < 1 {
			h = 1
		}
		w = maxWidth

		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return Image{}, err
	}

	return Image{Data: buf.Bytes(), Width: w, Height: h}, nil
}
