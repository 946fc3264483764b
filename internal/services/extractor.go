package services

import (
	"bytes"
	"io"
	"log"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// documentFormat tags the supported resume formats for text extraction.
type documentFormat int

const (
	formatUnsupported documentFormat = iota
	formatPDF
	formatPlainText
)

func formatForName(name string) documentFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return formatPDF
	case ".txt":
		return formatPlainText
	default:
		return formatUnsupported
	}
}

// blobReader is the slice of the document store the extractor needs.
type blobReader interface {
	Exists(name string) bool
	Open(name string) (io.ReadCloser, int64, error)
}

// TextExtractor turns a stored document into plain text for indexing. An
// empty result means "no text available": missing blobs, unsupported formats
// and parse failures all degrade to that, never to an error, so a malformed
// resume cannot block indexing or the primary candidate write.
type TextExtractor interface {
	ExtractText(name string) string
}

type textExtractor struct {
	blobs blobReader
}

func NewTextExtractor(blobs blobReader) TextExtractor {
	return &textExtractor{blobs: blobs}
}

func (e *textExtractor) ExtractText(name string) string {
	if name == "" {
		return ""
	}

	if !e.blobs.Exists(name) {
		log.Printf("⚠️  Resume blob not found: %s", name)
		return ""
	}

	rc, size, err := e.blobs.Open(name)
	if err != nil {
		log.Printf("⚠️  Failed to open resume blob %s: %v", name, err)
		return ""
	}
	defer rc.Close()

	switch formatForName(name) {
	case formatPDF:
		return extractPDFText(rc, size, name)
	case formatPlainText:
		return extractPlainText(rc, name)
	default:
		log.Printf("⚠️  Unsupported file format for text extraction: %s", filepath.Ext(name))
		return ""
	}
}

func extractPDFText(r io.Reader, size int64, name string) (text string) {
	// The pdf package panics on some malformed files; treat that the same
	// as any other parse failure.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("⚠️  PDF parse panic for %s: %v", name, rec)
			text = ""
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		log.Printf("⚠️  Failed to read resume blob %s: %v", name, err)
		return ""
	}
	if size <= 0 {
		size = int64(len(data))
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), size)
	if err != nil {
		log.Printf("⚠️  Failed to parse PDF %s: %v", name, err)
		return ""
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString(pageText)
	}

	return strings.TrimSpace(textBuilder.String())
}

func extractPlainText(r io.Reader, name string) string {
	data, err := io.ReadAll(r)
	if err != nil {
		log.Printf("⚠️  Failed to read resume blob %s: %v", name, err)
		return ""
	}
	if !utf8.Valid(data) {
		log.Printf("⚠️  Resume %s is not valid UTF-8 text", name)
		return ""
	}
	return strings.TrimSpace(string(data))
}
