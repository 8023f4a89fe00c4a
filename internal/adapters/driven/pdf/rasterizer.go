// Package pdf turns PDF files into one image per page using pdfcpu.
//
// pdfcpu does not render page content, so each page is represented by the
// largest image embedded on it, which for scanned documents is the scan
// itself. Pages without an embedded image become a blank page so page
// numbering is preserved.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/tiff"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
	"github.com/custodia-labs/docscan/internal/logger"
)

// Ensure Rasterizer implements the interface.
var _ driven.Rasterizer = (*Rasterizer)(nil)

// Blank page size in pixels, US Letter at 100 dpi.
const (
	blankWidth  = 850
	blankHeight = 1100
)

// Rasterizer extracts page images from PDFs.
type Rasterizer struct {
	conf *model.Configuration
}

// NewRasterizer creates a rasterizer that tolerates slightly malformed PDFs.
func NewRasterizer() *Rasterizer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Rasterizer{conf: conf}
}

// Rasterize returns one image per page, in page order.
func (r *Rasterizer) Rasterize(ctx context.Context, data []byte) ([]domain.PageImage, error) {
	pageCount, err := api.PageCount(bytes.NewReader(data), r.conf)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	largest := make(map[int]model.Image, pageCount)
	encoded := make(map[int][]byte, pageCount)
	digest := func(img model.Image, _ bool, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cur, ok := largest[img.PageNr]; ok && area(cur) >= area(img) {
			return nil
		}
		raw, err := io.ReadAll(img)
		if err != nil {
			return fmt.Errorf("reading image on page %d: %w", img.PageNr, err)
		}
		out, ok := toOCRFormat(img.FileType, raw)
		if !ok {
			logger.Debug("Skipping %s image on page %d", img.FileType, img.PageNr)
			return nil
		}
		largest[img.PageNr] = img
		encoded[img.PageNr] = out
		return nil
	}
	if err := api.ExtractImages(bytes.NewReader(data), nil, digest, r.conf); err != nil {
		return nil, fmt.Errorf("extracting page images: %w", err)
	}

	pages := make([]domain.PageImage, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		if data, ok := encoded[n]; ok {
			pages = append(pages, domain.PageImage{Data: data, MIMEType: mimeOf(largest[n].FileType)})
			continue
		}
		logger.Warn("Page %d has no embedded image, using a blank page", n)
		blank, err := blankPage()
		if err != nil {
			return nil, err
		}
		pages = append(pages, domain.PageImage{Data: blank, MIMEType: "image/png"})
	}
	return pages, nil
}

func area(img model.Image) int {
	return img.Width * img.Height
}

// toOCRFormat passes PNG and JPEG through and re-encodes TIFF as PNG.
func toOCRFormat(fileType string, raw []byte) ([]byte, bool) {
	switch strings.ToLower(fileType) {
	case "png", "jpg", "jpeg":
		return raw, true
	case "tif", "tiff":
		img, err := tiff.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, false
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, false
		}
		return buf.Bytes(), true
	default:
		return nil, false
	}
}

func mimeOf(fileType string) string {
	switch strings.ToLower(fileType) {
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}

func blankPage() ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, blankWidth, blankHeight))
	for i := range img.Pix {
		img.Pix[i] = uint8(color.White.Y >> 8)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding blank page: %w", err)
	}
	return buf.Bytes(), nil
}
