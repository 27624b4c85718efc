package service

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/xid"

	"ringkasan/internal/export/model"
	"ringkasan/pkg/apperror"
	"ringkasan/pkg/logger"
	"ringkasan/pkg/metrics"
	"ringkasan/pkg/sanitize"
)

// Renderer turns content into downloadable payloads. Each payload is staged
// in a temporary file under dir until the caller releases it with Cleanup.
type Renderer struct {
	Metrics *metrics.Metrics

	root *os.Root
	now  func() time.Time
}

// NewRenderer creates dir if needed and confines all file access to it.
func NewRenderer(dir string, m *metrics.Metrics) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("opening export directory: %w", err)
	}
	return &Renderer{Metrics: m, root: root, now: time.Now}, nil
}

func (r *Renderer) Close() error {
	return r.root.Close()
}

// Render sanitizes content and encodes it as format.
func (r *Renderer) Render(content string, tag model.Format, opts model.Options) (*model.Export, error) {
	f, ok := lookup(model.Format(strings.TrimSpace(string(tag))))
	if !ok {
		return nil, apperror.UnsupportedFormat("unsupported export format %q", tag)
	}
	clean := sanitize.String(content)
	if clean == "" {
		return nil, apperror.InvalidArgument("content is required")
	}

	now := r.now().UTC()
	opts = normalize(opts, now)

	exp, err := r.render(f, clean, opts, now)
	r.Metrics.ExportRendered(string(f.info.Format), err)
	if err != nil {
		return nil, err
	}
	logger.Sugar.Infof("Rendered %s export %s (%d bytes)", f.info.Format, exp.Filename, len(exp.Payload))
	return exp, nil
}

func (r *Renderer) render(f format, content string, opts model.Options, now time.Time) (*model.Export, error) {
	payload, err := f.render(content, opts)
	if err != nil {
		return nil, apperror.RenderFailure(err, "rendering %s", f.info.Format)
	}

	filename := Filename(now, f.info.Extension)
	ref := xid.New().String() + "-" + filename
	if err := r.stage(ref, payload); err != nil {
		_ = r.Cleanup(ref)
		return nil, apperror.RenderFailure(err, "staging %s", filename)
	}
	staged, err := r.read(ref)
	if err != nil {
		_ = r.Cleanup(ref)
		return nil, apperror.RenderFailure(err, "reading back %s", filename)
	}

	return &model.Export{
		Format:      f.info.Format,
		Payload:     staged,
		Filename:    filename,
		ContentType: f.info.MimeType,
		Ref:         ref,
	}, nil
}

// Cleanup deletes the temporary file behind ref. Unknown refs are ignored.
func (r *Renderer) Cleanup(ref string) error {
	err := r.root.Remove(ref)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", ref, err)
	}
	return nil
}

func (r *Renderer) stage(name string, payload []byte) error {
	f, err := r.root.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Renderer) read(name string) ([]byte, error) {
	f, err := r.root.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Filename returns export-<timestamp>.<ext> with the timestamp in UTC ISO-8601
// at millisecond precision and ':' and '.' replaced by '-'.
func Filename(at time.Time, ext string) string {
	stamp := at.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return "export-" + stamp + "." + ext
}

func normalize(opts model.Options, now time.Time) model.Options {
	opts.Title = sanitize.String(opts.Title)
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	opts.Author = sanitize.String(opts.Author)
	if opts.Author == "" {
		opts.Author = DefaultAuthor
	}
	opts.Category = sanitize.String(opts.Category)

	var tags []string
	for _, t := range opts.Tags {
		if t = sanitize.String(t); t != "" {
			tags = append(tags, t)
		}
	}
	opts.Tags = tags

	if opts.Date.IsZero() {
		opts.Date = now
	}
	opts.Date = opts.Date.UTC()
	return opts
}
