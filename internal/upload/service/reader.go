package service

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"ringkasan/internal/upload/model"
	"ringkasan/pkg/apperror"
	"ringkasan/pkg/logger"
	"ringkasan/pkg/sanitize"
)

// Extractor pulls plain text out of a PDF.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (*model.Extraction, error)
}

// Reader turns uploaded transcripts into sanitized text.
type Reader struct {
	Extractor Extractor // nil disables PDF uploads
}

func NewReader(extractor Extractor) *Reader {
	return &Reader{Extractor: extractor}
}

// Format returns the lowercase extension of filename without the dot.
func Format(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Read decodes data according to filename's extension.
func (r *Reader) Read(ctx context.Context, filename string, data []byte) (*model.Extraction, error) {
	var ext *model.Extraction
	switch format := Format(filename); format {
	case "txt", "md":
		if !utf8.Valid(data) {
			return nil, apperror.InvalidArgument("%s is not valid UTF-8 text", filename)
		}
		ext = &model.Extraction{Text: string(data)}
	case "pdf":
		if r.Extractor == nil {
			return nil, apperror.UnsupportedMedia("PDF uploads are not enabled")
		}
		var err error
		ext, err = r.Extractor.ExtractText(ctx, data)
		if err != nil {
			return nil, apperror.UpstreamFailure(err, "extracting text from %s", filename)
		}
		if ext == nil {
			return nil, apperror.UpstreamFailure(nil, "extractor returned no result for %s", filename)
		}
	default:
		return nil, apperror.UnsupportedMedia("cannot read .%s files", format)
	}

	ext.Text = sanitize.String(ext.Text)
	if ext.Text == "" {
		return nil, apperror.InvalidArgument("%s contains no text", filename)
	}
	logger.Sugar.Debugf("Read upload %s (%d bytes)", filename, len(data))
	return ext, nil
}
