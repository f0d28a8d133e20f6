package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// maxDocumentXML bounds the inflated size of word/document.xml.
const maxDocumentXML = 32 << 20

var errDocumentTooLarge = errors.New("word/document.xml exceeds size limit")

// extractDOCX reads word/document.xml. The docx library requires the
// relationships part, so minimal files fall back to reading the zip directly.
func extractDOCX(data []byte) (string, error) {
	raw, err := documentXML(data)
	if err != nil {
		return "", err
	}
	return docxText(raw)
}

func documentXML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var part *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			part = f
			break
		}
	}
	if part == nil {
		return "", errors.New("word/document.xml not found")
	}
	if part.UncompressedSize64 > maxDocumentXML {
		return "", errDocumentTooLarge
	}

	if doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data))); err == nil {
		defer doc.Close()
		return doc.Editable().GetContent(), nil
	}

	rc, err := part.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	raw, err := io.ReadAll(io.LimitReader(rc, maxDocumentXML+1))
	if err != nil {
		return "", err
	}
	if len(raw) > maxDocumentXML {
		return "", errDocumentTooLarge
	}
	return string(raw), nil
}

// docxText keeps the text of w:t runs only, so field codes and tracked
// deletions never reach skill extraction. Paragraphs and breaks become
// newlines and w:tab a tab.
func docxText(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	inText := 0
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if inText > 0 {
				buf.Write(t)
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText++
			case "tab":
				buf.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				if inText > 0 {
					inText--
				}
			case "p", "br", "cr":
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
			}
		}
	}
	return buf.String(), nil
}
