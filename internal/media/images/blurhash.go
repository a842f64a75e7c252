package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// thumbEdge bounds the longer side of the image fed to the blurhash encoder.
const thumbEdge = 64

// Preview is what a client needs to reserve space and paint a placeholder
// before the real image arrives.
type Preview struct {
	BlurHash string
	Width    int
	Height   int
}

// Inspect decodes an uploaded image and computes its 4x3 blurhash.
func Inspect(data []byte) (Preview, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Preview{}, fmt.Errorf("decode image: %w", err)
	}

	hash, err := blurhash.Encode(4, 3, thumbnail(img, thumbEdge))
	if err != nil {
		return Preview{}, fmt.Errorf("encode blurhash: %w", err)
	}
	b := img.Bounds()
	return Preview{BlurHash: hash, Width: b.Dx(), Height: b.Dy()}, nil
}

// thumbnail scales img so its longer side is edge pixels. Images already
// that small are returned unchanged.
func thumbnail(img image.Image, edge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= edge && h <= edge {
		return img
	}

	if w >= h {
		w, h = edge, max(h*edge/w, 1)
	} else {
		w, h = max(w*edge/h, 1), edge
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
