package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func grayJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// buildPDF writes a minimal PDF whose pages each show the given JPEG,
// or nothing when the entry is nil.
func buildPDF(t *testing.T, pages [][]byte, sizes [][2]int) []byte {
	t.Helper()

	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}

	catalog := add("") // filled in below
	pagesObj := add("")
	var kids []int
	for i, img := range pages {
		content := "q Q"
		resources := "<< >>"
		if img != nil {
			imgObj := add(fmt.Sprintf(
				"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray "+
					"/BitsPerComponent 8 /Filter /DCTDecode /Length %d >>\nstream\n%s\nendstream",
				sizes[i][0], sizes[i][1], len(img), img))
			resources = fmt.Sprintf("<< /XObject << /Im1 %d 0 R >> >>", imgObj)
			content = "q 612 0 0 792 0 0 cm /Im1 Do Q"
		}
		contentObj := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
		kids = append(kids, add(fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources %s /Contents %d 0 R >>",
			pagesObj, resources, contentObj)))
	}
	objects[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj)
	kidRefs := ""
	for _, k := range kids {
		kidRefs += fmt.Sprintf("%d 0 R ", k)
	}
	objects[pagesObj-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kidRefs, len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalog, xref)
	return buf.Bytes()
}

func TestRasterize_OneImagePerPage(t *testing.T) {
	scan := grayJPEG(t, 40, 60)
	doc := buildPDF(t, [][]byte{scan, nil}, [][2]int{{40, 60}, {0, 0}})

	pages, err := NewRasterizer().Rasterize(context.Background(), doc)

	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "image/jpeg", pages[0].MIMEType)
	assert.Equal(t, scan, pages[0].Data)

	assert.Equal(t, "image/png", pages[1].MIMEType)
	blank, err := png.Decode(bytes.NewReader(pages[1].Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, blankWidth, blankHeight), blank.Bounds())
}

func TestRasterize_InvalidPDF(t *testing.T) {
	_, err := NewRasterizer().Rasterize(context.Background(), []byte("not a pdf"))

	assert.Error(t, err)
}

func TestToOCRFormat(t *testing.T) {
	var tiffBuf bytes.Buffer
	require.NoError(t, tiff.Encode(&tiffBuf, image.NewGray(image.Rect(0, 0, 3, 3)), nil))

	out, ok := toOCRFormat("tif", tiffBuf.Bytes())
	require.True(t, ok)
	_, err := png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)

	out, ok = toOCRFormat("jpg", []byte("jpeg bytes"))
	assert.True(t, ok)
	assert.Equal(t, []byte("jpeg bytes"), out)

	_, ok = toOCRFormat("jp2", []byte("x"))
	assert.False(t, ok)

	_, ok = toOCRFormat("tif", []byte("broken"))
	assert.False(t, ok)
}

func TestMimeOf(t *testing.T) {
	assert.Equal(t, "image/jpeg", mimeOf("jpg"))
	assert.Equal(t, "image/png", mimeOf("png"))
	assert.Equal(t, "image/png", mimeOf("tif"))
}
