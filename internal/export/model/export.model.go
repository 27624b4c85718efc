package model

import "time"

// Format is an export format tag.
type Format string

const (
	FormatTxt      Format = "txt"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatDocx     Format = "docx"
)

// FormatInfo is one entry of the format catalog.
type FormatInfo struct {
	Format      Format `json:"format"`
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	MimeType    string `json:"mime_type"`
	Description string `json:"description"`
}

// Options controls the decoration added around the content.
type Options struct {
	Title              string    `json:"title"`
	Author             string    `json:"author"`
	Tags               []string  `json:"tags"`
	Category           string    `json:"category"`
	IncludeMetadata    bool      `json:"include_metadata"`
	IncludeFrontmatter bool      `json:"include_frontmatter"`
	Date               time.Time `json:"date"` // zero means the render time
}

// Export is a rendered payload. Ref names the temporary file backing it and
// must be passed to Cleanup once the payload has been sent.
type Export struct {
	Format      Format
	Payload     []byte
	Filename    string
	ContentType string
	Ref         string
}

// ExportRequest selects the content either directly or by revision.
type ExportRequest struct {
	Content   string  `json:"content"`
	DocID     string  `json:"document_id"`
	VersionID string  `json:"version_id"`
	Format    Format  `json:"format"`
	Options   Options `json:"options"`
}
