// Package pdf renders notes as downloadable PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// RenderNote lays out a note on A4 pages: the title in bold followed by the
// content. The built-in Helvetica font is encoded as cp1252, so characters
// outside that code page are printed as '.'.
func RenderNote(title, content string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(title, true)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 10, tr(title), "", "", false)

	doc.Ln(4)
	doc.SetFont("Helvetica", "", 12)
	doc.MultiCell(0, 8, tr(content), "", "", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename derives an ASCII download name such as "shopping-list.pdf".
func Filename(title string) string {
	slug := strings.ToLower(strings.Trim(nonAlphanumeric.ReplaceAllString(title, "-"), "-"))
	if slug == "" {
		slug = "note"
	}
	return slug + ".pdf"
}
