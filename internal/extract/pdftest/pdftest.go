// Package pdftest writes small, valid PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Document describes a PDF to generate. Each page is a raw content stream
// drawn with Helvetica bound to /F1. An empty stream yields a blank page.
type Document struct {
	Pages []string
	// Info becomes the document information dictionary, e.g. "Title".
	Info map[string]string
}

// Cell draws s with its baseline starting at (x, y) in points, positioned
// with Td.
func Cell(x, y float64, s string) string {
	return fmt.Sprintf("BT /F1 12 Tf %g %g Td (%s) Tj ET", x, y, escape(s))
}

// Text returns a document with one line of text per page.
func Text(pages ...string) []byte {
	doc := Document{Pages: make([]string, len(pages))}
	for i, text := range pages {
		if text != "" {
			doc.Pages[i] = Cell(72, 720, text)
		}
	}
	return Build(doc)
}

// Build serializes doc with a correct cross-reference table.
func Build(doc Document) []byte {
	n := len(doc.Pages)
	// 1 catalog, 2 pages, 3 font, then a page object and content stream per
	// page, then the optional info dictionary.
	kids := make([]string, n)
	for i := range doc.Pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, content := range doc.Pages {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	trailer := ""
	if len(doc.Info) > 0 {
		keys := make([]string, 0, len(doc.Info))
		for k := range doc.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var entries []string
		for _, k := range keys {
			entries = append(entries, fmt.Sprintf("/%s (%s)", k, escape(doc.Info[k])))
		}
		objects = append(objects, "<< "+strings.Join(entries, " ")+" >>")
		trailer = fmt.Sprintf(" /Info %d 0 R", len(objects))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, trailer, xref)
	return buf.Bytes()
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}
