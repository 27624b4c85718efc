package service

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ringkasan/internal/export/model"
)

const (
	DefaultTitle  = "Transcript Summary"
	DefaultAuthor = "Anonymous"

	footer = "Generated by Ringkasan"
)

type renderFunc func(content string, opts model.Options) ([]byte, error)

type format struct {
	info   model.FormatInfo
	render renderFunc
}

var catalog = []format{
	{
		info: model.FormatInfo{
			Format:      model.FormatTxt,
			Name:        "Plain Text",
			Extension:   "txt",
			MimeType:    "text/plain",
			Description: "Plain text with an optional metadata header",
		},
		render: renderTxt,
	},
	{
		info: model.FormatInfo{
			Format:      model.FormatMarkdown,
			Name:        "Markdown",
			Extension:   "md",
			MimeType:    "text/markdown",
			Description: "Markdown with optional YAML frontmatter and footer",
		},
		render: renderMarkdown,
	},
	{
		info: model.FormatInfo{
			Format:      model.FormatPDF,
			Name:        "PDF",
			Extension:   "pdf",
			MimeType:    "application/pdf",
			Description: "Text-only PDF stand-in; not a structurally valid PDF",
		},
		render: renderPDF,
	},
	{
		info: model.FormatInfo{
			Format:      model.FormatDocx,
			Name:        "Word Document",
			Extension:   "docx",
			MimeType:    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			Description: "WordprocessingML document body; not a full OOXML package",
		},
		render: renderDocx,
	},
}

// SupportedFormats returns the format catalog. Render accepts nothing else.
func SupportedFormats() []model.FormatInfo {
	out := make([]model.FormatInfo, len(catalog))
	for i, f := range catalog {
		out[i] = f.info
	}
	return out
}

func lookup(tag model.Format) (format, bool) {
	for _, f := range catalog {
		if f.info.Format == tag {
			return f, true
		}
	}
	return format{}, false
}

func renderTxt(content string, opts model.Options) ([]byte, error) {
	var b strings.Builder
	if opts.IncludeMetadata {
		fmt.Fprintf(&b, "Title: %s\n", opts.Title)
		fmt.Fprintf(&b, "Date: %s\n", opts.Date.Format(time.DateOnly))
		fmt.Fprintf(&b, "Time: %s\n", opts.Date.Format("15:04:05 MST"))
		fmt.Fprintf(&b, "Author: %s\n", opts.Author)
		b.WriteString(strings.Repeat("=", 50))
		b.WriteString("\n\n")
	}
	b.WriteString(content)
	b.WriteString("\n")
	return []byte(b.String()), nil
}

type frontmatter struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Author   string   `yaml:"author"`
	Tags     []string `yaml:"tags,omitempty"`
	Category string   `yaml:"category,omitempty"`
}

func renderMarkdown(content string, opts model.Options) ([]byte, error) {
	var b bytes.Buffer
	if opts.IncludeFrontmatter {
		fm, err := yaml.Marshal(frontmatter{
			Title:    opts.Title,
			Date:     opts.Date.Format(time.DateOnly),
			Author:   opts.Author,
			Tags:     opts.Tags,
			Category: opts.Category,
		})
		if err != nil {
			return nil, fmt.Errorf("encode frontmatter: %w", err)
		}
		b.WriteString("---\n")
		b.Write(fm)
		b.WriteString("---\n\n")
	}
	b.WriteString(content)
	b.WriteString("\n")
	if opts.IncludeMetadata {
		fmt.Fprintf(&b, "\n---\n\n*%s on %s*\n", footer, opts.Date.Format(time.DateOnly))
	}
	return b.Bytes(), nil
}

func renderPDF(content string, opts model.Options) ([]byte, error) {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	fmt.Fprintf(&b, "%% %s\n\n", footer)
	fmt.Fprintf(&b, "%s\n\n", opts.Title)
	b.WriteString(content)
	b.WriteString("\n\n%%EOF\n")
	return []byte(b.String()), nil
}

const docxHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
`

func renderDocx(content string, opts model.Options) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(docxHeader)

	b.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>`)
	if err := xml.EscapeText(&b, []byte(opts.Title)); err != nil {
		return nil, fmt.Errorf("escape title: %w", err)
	}
	b.WriteString("</w:t></w:r></w:p>\n")

	for _, line := range strings.Split(content, "\n") {
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&b, []byte(line)); err != nil {
			return nil, fmt.Errorf("escape content: %w", err)
		}
		b.WriteString("</w:t></w:r></w:p>\n")
	}

	b.WriteString("</w:body>\n</w:document>\n")
	return b.Bytes(), nil
}
