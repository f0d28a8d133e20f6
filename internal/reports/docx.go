package reports

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// runStyle is the inline formatting of one text run.
type runStyle struct {
	Bold  bool
	Size  int // half-points
	Color string
}

const (
	headingColor = "1F2937"
	titleColor   = "111111"
	gapColor     = "B91C1C"
)

var styles = map[string]runStyle{
	"title":   {Bold: true, Size: 32, Color: titleColor},
	"heading": {Bold: true, Size: 24, Color: headingColor},
	"score":   {Bold: true, Size: 28},
	"label":   {Bold: true},
	"gap":     {Color: gapColor},
	"body":    {},
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// RenderDOCX writes data as a minimal WordprocessingML package.
func RenderDOCX(data Data) ([]byte, error) {
	body, err := documentXML(data)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	writer := zip.NewWriter(&out)
	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/document.xml", body},
	}
	for _, part := range parts {
		if err := writeZipFile(writer, part.name, part.content, data.GeneratedAt); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeZipFile(writer *zip.Writer, name string, content []byte, modified time.Time) error {
	header := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified}
	dst, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	_, err = dst.Write(content)
	return err
}

func documentXML(data Data) ([]byte, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	p := &paragraphWriter{b: &b}
	p.line("title", "Resume Analysis Report")
	p.line("body", "Generated "+data.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))

	p.line("heading", "Job Compatibility Score")
	p.line("score", formatPercent(data.CompatibilityScore))
	p.labeled("Skills", formatPercent(data.SkillScore))
	p.labeled("Experience", formatPercent(data.ExperienceScore))
	p.labeled("Education", formatPercent(data.EducationScore))

	p.line("heading", "Extracted Skills")
	p.line("body", listOr(data.Skills, "None detected"))
	p.line("heading", "Matched Skills")
	p.line("body", listOr(data.MatchedSkills, "None"))
	if len(data.SkillGaps) > 0 {
		p.line("heading", "Skill Gaps")
		p.line("gap", strings.Join(data.SkillGaps, ", "))
	}

	p.line("heading", "Recommendations")
	if len(data.Recommendations) == 0 {
		p.line("body", "No recommendations.")
	}
	for _, rec := range data.Recommendations {
		if rec.Action != "" {
			p.labeled("• "+rec.Title, rec.Action)
			continue
		}
		p.line("body", "• "+rec.Title)
	}

	b.WriteString(`<w:sectPr/></w:body></w:document>`)
	if p.err != nil {
		return nil, p.err
	}
	return []byte(b.String()), nil
}

type paragraphWriter struct {
	b   *strings.Builder
	err error
}

func (p *paragraphWriter) line(style, text string) {
	p.b.WriteString("<w:p>")
	p.run(style, text)
	p.b.WriteString("</w:p>")
}

func (p *paragraphWriter) labeled(label, value string) {
	p.b.WriteString("<w:p>")
	p.run("label", label+": ")
	p.run("body", value)
	p.b.WriteString("</w:p>")
}

func (p *paragraphWriter) run(style, text string) {
	if p.err != nil {
		return
	}
	s := styles[style]
	p.b.WriteString("<w:r>")
	if s.Bold || s.Size > 0 || s.Color != "" {
		p.b.WriteString("<w:rPr>")
		if s.Bold {
			p.b.WriteString("<w:b/>")
		}
		if s.Color != "" {
			fmt.Fprintf(p.b, `<w:color w:val="%s"/>`, s.Color)
		}
		if s.Size > 0 {
			fmt.Fprintf(p.b, `<w:sz w:val="%d"/>`, s.Size)
		}
		p.b.WriteString("</w:rPr>")
	}
	p.b.WriteString(`<w:t xml:space="preserve">`)
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		p.err = err
		return
	}
	p.b.Write(escaped.Bytes())
	p.b.WriteString("</w:t></w:r>")
}

func listOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%g%%", v)
}
