package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Page is one recognised page of a document.
type Page struct {
	// Number is the 1-based page position.
	Number int

	// ImageRef is an opaque handle to the page image held by an ImageStore.
	ImageRef string

	// Text is the recognised, possibly user-edited, page text.
	Text string

	// Confidence is the OCR engine's confidence in [0, 100].
	Confidence float64
}

// Document is the OCR result for one uploaded file.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// BatchID links to the Batch that produced this document.
	BatchID string

	// FileName is the original file name, used for display and exports.
	FileName string

	// MIMEType is the detected content type of the source file.
	MIMEType string

	// Paginated is true when the source was a PDF. Paginated text
	// carries a marker before every page, even for one-page PDFs.
	Paginated bool

	// Pages holds at least one page, numbered contiguously from 1.
	Pages []Page

	// Text is derived from Pages; see RebuildText.
	Text string

	// Confidence is the mean of the page confidences.
	Confidence float64

	// Tags is the ranked, deduplicated tag list. At most MaxTags at creation.
	Tags []string

	// CreatedAt is when the document was recognised.
	CreatedAt time.Time

	// UpdatedAt is when the document was last edited.
	UpdatedAt time.Time
}

// MaxTags caps the number of tags produced by aggregation.
const MaxTags = 20

// NewDocument builds a document from its recognised pages and derives text and confidence.
func NewDocument(id, fileName, mimeType string, paginated bool, pages []Page) (*Document, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: document %q has no pages", ErrInvalidInput, fileName)
	}
	for i := range pages {
		if pages[i].Number != i+1 {
			return nil, fmt.Errorf("%w: page %d out of sequence", ErrInvalidInput, pages[i].Number)
		}
	}

	now := time.Now().UTC()
	d := &Document{
		ID:        id,
		FileName:  fileName,
		MIMEType:  mimeType,
		Paginated: paginated,
		Pages:     pages,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.RebuildText()
	d.RecomputeConfidence()
	return d, nil
}

// IsMultiPage reports whether the document has more than one page.
func (d *Document) IsMultiPage() bool {
	return len(d.Pages) > 1
}

// ImageRefs returns the image handle of every page in order.
func (d *Document) ImageRefs() []string {
	refs := make([]string, 0, len(d.Pages))
	for i := range d.Pages {
		if d.Pages[i].ImageRef != "" {
			refs = append(refs, d.Pages[i].ImageRef)
		}
	}
	return refs
}

// ImageRef returns the first page's image handle.
func (d *Document) ImageRef() string {
	if len(d.Pages) == 0 {
		return ""
	}
	return d.Pages[0].ImageRef
}

// Page returns the page with the given 1-based number.
func (d *Document) Page(number int) (*Page, bool) {
	if number < 1 || number > len(d.Pages) {
		return nil, false
	}
	return &d.Pages[number-1], true
}

// RecomputeConfidence sets Confidence to the mean page confidence.
func (d *Document) RecomputeConfidence() {
	if len(d.Pages) == 0 {
		d.Confidence = 0
		return
	}
	var sum float64
	for i := range d.Pages {
		sum += d.Pages[i].Confidence
	}
	d.Confidence = sum / float64(len(d.Pages))
}

// RebuildText derives Text from the pages.
func (d *Document) RebuildText() {
	if !d.Paginated {
		if len(d.Pages) > 0 {
			d.Text = d.Pages[0].Text
		}
		return
	}
	d.Text = JoinPages(d.Pages)
}

// JoinPages renders pages with a "--- Page N ---" marker before each one.
func JoinPages(pages []Page) string {
	parts := make([]string, len(pages))
	for i := range pages {
		parts[i] = PageSection(pages[i].Number, pages[i].Text)
	}
	return strings.Join(parts, "\n")
}

// PageSection renders one page of joined document text.
func PageSection(number int, text string) string {
	return fmt.Sprintf("--- Page %d ---\n\n%s\n\n", number, text)
}

// EditPageText replaces the text of one page and rebuilds the document text.
// Blank text and unknown pages leave the document unchanged. Tags and
// confidence are not recomputed.
func (d *Document) EditPageText(number int, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	page, ok := d.Page(number)
	if !ok || page.Text == text {
		return false
	}
	page.Text = text
	d.RebuildText()
	d.touch()
	return true
}

// EditText replaces the text of a single-page document.
// Multi-page documents must be edited page by page.
func (d *Document) EditText(text string) bool {
	if d.IsMultiPage() {
		return false
	}
	return d.EditPageText(1, text)
}

// AddTag appends a tag unless it is blank or already present. The tag is
// stored as given. Manual additions are not subject to MaxTags.
func (d *Document) AddTag(tag string) bool {
	if strings.TrimSpace(tag) == "" || d.HasTag(tag) {
		return false
	}
	d.Tags = append(d.Tags, tag)
	d.touch()
	return true
}

// RemoveTag removes the first exact match, keeping the order of the rest.
func (d *Document) RemoveTag(tag string) bool {
	for i, t := range d.Tags {
		if t == tag {
			d.Tags = append(d.Tags[:i:i], d.Tags[i+1:]...)
			d.touch()
			return true
		}
	}
	return false
}

// HasTag reports whether the tag is present, compared case-sensitively.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to readers.
func (d *Document) Clone() *Document {
	c := *d
	c.Pages = append([]Page(nil), d.Pages...)
	c.Tags = append([]string{}, d.Tags...)
	return &c
}

// Preview returns the first n characters of the text.
func (d *Document) Preview(n int) string {
	if utf8.RuneCountInString(d.Text) <= n {
		return d.Text
	}
	runes := []rune(d.Text)
	return string(runes[:n]) + "..."
}

func (d *Document) touch() {
	d.UpdatedAt = time.Now().UTC()
}
