package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNote(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"plain", "Groceries", "milk\neggs\nbread"},
		{"empty content", "Empty", ""},
		{"latin-1 accents", "Café", "crème brûlée"},
		{"outside latin-1", "日本語", "emoji 🎉 and ✓"},
		{"long content", "Long", strings.Repeat("All work and no play makes Jack a dull boy. ", 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderNote(tt.title, tt.content)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output should be a PDF document")
			assert.True(t, bytes.Contains(data, []byte("%%EOF")), "output should be a complete PDF document")
		})
	}
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"Shopping List":        "shopping-list.pdf",
		"  --Hello, World!--  ": "hello-world.pdf",
		"Q3 Report (final) v2": "q3-report-final-v2.pdf",
		"":                     "note.pdf",
		"!!!":                  "note.pdf",
		"日本語":                  "note.pdf",
		"Café au lait":         "caf-au-lait.pdf",
	}

	for title, want := range tests {
		assert.Equal(t, want, Filename(title), "Filename(%q)", title)
	}
}

func TestCoreFontTranslation(t *testing.T) {
	tr := fpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")

	assert.Equal(t, "abc", tr("abc"))
	assert.Equal(t, "caf\xe9", tr("café"))
	assert.Equal(t, "\x80 5", tr("€ 5"))
	assert.Equal(t, "a.b", tr("a✓b"))
	assert.Equal(t, "..", tr("🎉🎉"))
}
