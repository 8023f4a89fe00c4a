package domain

import "fmt"

// Export is a plain-text rendering of a document or one of its pages.
type Export struct {
	// FileName is the suggested file name for the export.
	FileName string

	// Content is the exported text.
	Content string
}

// ExportFileName returns the export file name for a whole document.
func ExportFileName(fileName string) string {
	return fileName + "_extracted.txt"
}

// PageExportFileName returns the export file name for a single page.
func PageExportFileName(fileName string, page int) string {
	return fmt.Sprintf("%s_page_%d_extracted.txt", fileName, page)
}

// Export renders the whole document text.
func (d *Document) Export() Export {
	return Export{FileName: ExportFileName(d.FileName), Content: d.Text}
}

// ExportPage renders one page's text without its marker.
func (d *Document) ExportPage(number int) (Export, error) {
	page, ok := d.Page(number)
	if !ok {
		return Export{}, fmt.Errorf("%w: page %d of %d", ErrNotFound, number, len(d.Pages))
	}
	return Export{FileName: PageExportFileName(d.FileName, number), Content: page.Text}, nil
}
