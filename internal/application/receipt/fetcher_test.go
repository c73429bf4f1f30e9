package receipt

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/settlement-portal/internal/application/port"
)

const sampleID = "1AbCdEfGhIjKlMnOpQrStUvWxYz_-0123"

type mockFileServer struct {
	calls       int
	getFileFunc func(ctx context.Context, fileID string) (*port.RemoteFile, error)
}

func (m *mockFileServer) GetFile(ctx context.Context, fileID string) (*port.RemoteFile, error) {
	m.calls++
	if m.getFileFunc != nil {
		return m.getFileFunc(ctx, fileID)
	}
	return &port.RemoteFile{Base64: base64.StdEncoding.EncodeToString([]byte("receipt")), MimeType: "image/png"}, nil
}

func TestParseFileID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"path form", "https://drive.google.com/file/d/" + sampleID + "/view?usp=sharing", sampleID, false},
		{"query form", "https://drive.google.com/open?id=" + sampleID, sampleID, false},
		{"query form after other params", "https://drive.google.com/uc?export=view&id=" + sampleID, sampleID, false},
		{"id too short", "https://drive.google.com/file/d/abc123/view", "", true},
		{"no id", "https://example.com/receipt.png", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFileID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid url never reaches the file server", func(t *testing.T) {
		files := &mockFileServer{}
		_, err := NewFetcher(files).Fetch(ctx, "not a drive link")

		assert.ErrorIs(t, err, ErrInvalidReference)
		assert.Equal(t, 0, files.calls)
	})

	t.Run("decodes content and strips whitespace", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 body"))
		files := &mockFileServer{getFileFunc: func(ctx context.Context, fileID string) (*port.RemoteFile, error) {
			assert.Equal(t, sampleID, fileID)
			return &port.RemoteFile{Base64: encoded[:4] + "\n " + encoded[4:], MimeType: "application/pdf"}, nil
		}}

		got, err := NewFetcher(files).Fetch(ctx, "https://drive.google.com/file/d/"+sampleID+"/view")

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 body"), got.Data)
		assert.Equal(t, encoded, got.Base64)
		assert.Equal(t, "application/pdf", got.MimeType)
	})

	t.Run("missing mime type defaults to jpeg", func(t *testing.T) {
		files := &mockFileServer{getFileFunc: func(ctx context.Context, fileID string) (*port.RemoteFile, error) {
			return &port.RemoteFile{Base64: base64.StdEncoding.EncodeToString([]byte("x"))}, nil
		}}

		got, err := NewFetcher(files).FetchByID(ctx, sampleID)

		require.NoError(t, err)
		assert.Equal(t, DefaultMimeType, got.MimeType)
	})

	t.Run("collaborator failure keeps its message", func(t *testing.T) {
		files := &mockFileServer{getFileFunc: func(ctx context.Context, fileID string) (*port.RemoteFile, error) {
			return nil, errors.New("access denied")
		}}

		_, err := NewFetcher(files).FetchByID(ctx, sampleID)

		assert.ErrorIs(t, err, port.ErrFetchFailed)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("empty payload is a fetch failure", func(t *testing.T) {
		files := &mockFileServer{getFileFunc: func(ctx context.Context, fileID string) (*port.RemoteFile, error) {
			return &port.RemoteFile{Base64: "  \n", MimeType: "image/png"}, nil
		}}

		_, err := NewFetcher(files).FetchByID(ctx, sampleID)

		assert.ErrorIs(t, err, port.ErrFetchFailed)
	})
}
