// Package parser turns uploaded resume files into plain text.
package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies a parse failure.
type Kind string

const (
	KindUnsupported Kind = "unsupported"
	KindCorrupt     Kind = "corrupt"
)

const (
	FormatPDF  = ".pdf"
	FormatDOCX = ".docx"
	FormatTXT  = ".txt"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseError reports why a document could not be turned into text.
type ParseError struct {
	Kind   Kind
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindUnsupported:
		return fmt.Sprintf("unsupported file type %q", e.Format)
	default:
		return fmt.Sprintf("%s parsing error: %v", strings.TrimPrefix(e.Format, "."), e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// SupportedFormats lists accepted extensions.
func SupportedFormats() []string {
	return []string{FormatPDF, FormatDOCX, FormatTXT}
}

// FormatOf returns the normalized extension of fileName, or a *ParseError
// when it is not supported.
func FormatOf(fileName string) (string, error) {
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	switch ext {
	case FormatPDF, FormatDOCX, FormatTXT:
		return ext, nil
	default:
		return "", &ParseError{Kind: KindUnsupported, Format: ext, Err: ErrUnsupportedFormat}
	}
}

// Parse extracts text from data using the extension of fileName.
func Parse(ctx context.Context, data []byte, fileName string) (string, error) {
	format, err := FormatOf(fileName)
	if err != nil {
		return "", err
	}
	return ParseAs(ctx, data, format)
}

// ParseAs extracts text from data declared as the given extension. A
// well-formed document without text yields "" and no error.
func ParseAs(ctx context.Context, data []byte, format string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" && !strings.HasPrefix(format, ".") {
		format = "." + format
	}

	var extract func([]byte) (string, error)
	switch format {
	case FormatPDF:
		extract = extractPDF
	case FormatDOCX:
		extract = extractDOCX
	case FormatTXT:
		extract = extractTXT
	default:
		return "", &ParseError{Kind: KindUnsupported, Format: format, Err: ErrUnsupportedFormat}
	}

	text, err := safeExtract(extract, data)
	if err != nil {
		return "", &ParseError{Kind: KindCorrupt, Format: format, Err: err}
	}
	return normalizeText(text), nil
}

// safeExtract converts panics from third-party decoders on malformed input
// into errors.
func safeExtract(fn func([]byte) (string, error), data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed document: %v", rec)
		}
	}()
	return fn(data)
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
