package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringkasan/internal/upload/model"
	"ringkasan/pkg/apperror"
)

type fakeExtractor struct {
	text  string
	err   error
	empty bool
}

func (f fakeExtractor) ExtractText(ctx context.Context, data []byte) (*model.Extraction, error) {
	if f.err != nil || f.empty {
		return nil, f.err
	}
	return &model.Extraction{Text: f.text, Pages: 2}, nil
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "md", Format("Notes.MD"))
	assert.Equal(t, "pdf", Format("a.b.pdf"))
	assert.Equal(t, "", Format("README"))
}

func TestReadText(t *testing.T) {
	r := NewReader(nil)

	ext, err := r.Read(context.Background(), "call.txt", []byte("Speaker 1: \"hello\"\r\nSpeaker 2: hi"))
	require.NoError(t, err)
	assert.Equal(t, "Speaker 1: hello\nSpeaker 2: hi", ext.Text)

	_, err = r.Read(context.Background(), "call.md", []byte{0xff, 0xfe, 'a'})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = r.Read(context.Background(), "empty.txt", []byte("<script>x</script>"))
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestReadPDF(t *testing.T) {
	_, err := NewReader(nil).Read(context.Background(), "call.pdf", []byte("%PDF"))
	assert.Equal(t, apperror.KindUnsupportedMedia, apperror.KindOf(err))

	ext, err := NewReader(fakeExtractor{text: "page text"}).Read(context.Background(), "call.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "page text", ext.Text)
	assert.Equal(t, 2, ext.Pages)

	_, err = NewReader(fakeExtractor{err: errors.New("corrupt")}).Read(context.Background(), "call.pdf", nil)
	assert.ErrorIs(t, err, apperror.ErrUpstreamFailure)

	_, err = NewReader(fakeExtractor{empty: true}).Read(context.Background(), "call.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, apperror.ErrUpstreamFailure)
}

func TestReadUnknownExtension(t *testing.T) {
	_, err := NewReader(nil).Read(context.Background(), "call.exe", []byte("x"))
	assert.Equal(t, apperror.KindUnsupportedMedia, apperror.KindOf(err))
}
