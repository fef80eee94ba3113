// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfinfo reads basic facts about a PDF without converting it.
package pdfinfo

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (n int, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("reading %s: malformed PDF: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	return r.NumPage(), nil
}
