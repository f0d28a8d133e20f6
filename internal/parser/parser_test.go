package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, withRels bool, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":   doc,
	}
	if withRels {
		files["word/_rels/document.xml.rels"] = `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// buildPDF writes a one-page PDF with a correct xref table.
func buildPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
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
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestParseTXTStripsBOMAndNormalizes(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Jane Doe\r\nPython, SQL   \r\n")...)
	text, err := Parse(context.Background(), data, "resume.TXT")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nPython, SQL", text)
}

func TestParseTXTRejectsInvalidUTF8(t *testing.T) {
	_, err := Parse(context.Background(), []byte{0xff, 0xfe, 0x00}, "resume.txt")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindCorrupt, perr.Kind)
	assert.Equal(t, ".txt", perr.Format)
}

func TestParseUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"resume.doc", "resume", "resume.png", "archive.zip"} {
		_, err := Parse(context.Background(), []byte("content"), name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
		var perr *ParseError
		require.True(t, errors.As(err, &perr), name)
		assert.Equal(t, KindUnsupported, perr.Kind)
	}
}

func TestParseZeroBytePDFIsCorrupt(t *testing.T) {
	_, err := Parse(context.Background(), nil, "resume.pdf")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindCorrupt, perr.Kind)
}

func TestParseBlankTextYieldsEmptyString(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(" \n\t \n"), []byte("\xef\xbb\xbf\r\n")} {
		text, err := ParseAs(context.Background(), data, ".txt")
		require.NoError(t, err, "%q", data)
		assert.Equal(t, "", text)
	}
}

func TestParseDOCX(t *testing.T) {
	for _, withRels := range []bool{true, false} {
		data := buildDOCX(t, withRels, "Senior Go Engineer", "Kubernetes &amp; AWS")
		text, err := Parse(context.Background(), data, "cv.docx")
		require.NoError(t, err, "withRels=%v", withRels)
		assert.Equal(t, "Senior Go Engineer\nKubernetes & AWS", text)
	}
}

func TestDocxTextSkipsFieldCodesAndDeletions(t *testing.T) {
	raw := `<w:document xmlns:w="w"><w:body>` +
		`<w:p><w:r><w:instrText>HYPERLINK "x"</w:instrText></w:r><w:r><w:t>Go</w:t></w:r><w:r><w:tab/><w:t>SQL</w:t></w:r></w:p>` +
		`<w:p><w:r><w:delText>COBOL</w:delText></w:r><w:r><w:t xml:space="preserve">Docker </w:t></w:r><w:r><w:br/><w:t>AWS</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	text, err := docxText(raw)
	require.NoError(t, err)
	assert.Equal(t, "Go\tSQL\nDocker \nAWS\n", text)
}

func TestParseDOCXCorrupt(t *testing.T) {
	_, err := Parse(context.Background(), []byte("PK not really a zip"), "cv.docx")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindCorrupt, perr.Kind)
	assert.Contains(t, perr.Error(), "docx parsing error")
}

func TestParsePDF(t *testing.T) {
	text, err := Parse(context.Background(), buildPDF("Python developer with SQL"), "cv.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Python developer with SQL")
}

func TestParsePDFCorrupt(t *testing.T) {
	_, err := Parse(context.Background(), []byte("definitely not a pdf"), "cv.pdf")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindCorrupt, perr.Kind)
}

func TestParseAsAcceptsBareExtension(t *testing.T) {
	text, err := ParseAs(context.Background(), []byte("hello"), "TXT")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestParseHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, []byte("hello"), "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
