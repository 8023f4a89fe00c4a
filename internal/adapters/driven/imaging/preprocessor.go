// Package imaging prepares page images for OCR.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // decoders
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// Ensure Preprocessor implements the interface.
var _ driven.Preprocessor = (*Preprocessor)(nil)

// DefaultMaxDimension is the longest side, in pixels, kept before downscaling.
const DefaultMaxDimension = 2000

// Preprocessor downscales large images, converts them to greyscale,
// stretches contrast and sharpens edges. Output is always PNG.
type Preprocessor struct {
	MaxDimension int
}

// NewPreprocessor creates a preprocessor with DefaultMaxDimension.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{MaxDimension: DefaultMaxDimension}
}

// Preprocess returns the prepared image. Callers fall back to the original on error.
func (p *Preprocessor) Preprocess(ctx context.Context, img domain.PageImage) (domain.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return domain.PageImage{}, err
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return domain.PageImage{}, fmt.Errorf("decoding image: %w", err)
	}

	gray := toGray(resize(src, p.maxDimension()))
	normalize(gray)
	out := sharpen(gray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return domain.PageImage{}, fmt.Errorf("encoding image: %w", err)
	}
	return domain.PageImage{Data: buf.Bytes(), MIMEType: "image/png"}, nil
}

func (p *Preprocessor) maxDimension() int {
	if p.MaxDimension <= 0 {
		return DefaultMaxDimension
	}
	return p.MaxDimension
}

// resize scales src so its longest side is at most limit, keeping the aspect ratio.
func resize(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= limit {
		return src
	}
	scale := float64(limit) / float64(longest)
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// normalize stretches the intensity range to the full 0-255 scale.
func normalize(img *image.Gray) {
	lo, hi := uint8(255), uint8(0)
	for _, v := range img.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi <= lo {
		return
	}
	span := float64(hi - lo)
	for i, v := range img.Pix {
		img.Pix[i] = uint8(float64(v-lo)*255/span + 0.5)
	}
}

// sharpen applies a 3x3 sharpening kernel; border pixels are copied.
func sharpen(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	copy(dst.Pix, src.Pix)
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return dst
	}
	at := func(x, y int) int { return int(src.Pix[y*src.Stride+x]) }
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			v := 5*at(x, y) - at(x-1, y) - at(x+1, y) - at(x, y-1) - at(x, y+1)
			dst.Pix[y*dst.Stride+x] = uint8(min(255, max(0, v)))
		}
	}
	return dst
}
