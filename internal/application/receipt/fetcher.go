// Package receipt resolves shared-drive receipt links to file content.
package receipt

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/garyjia/settlement-portal/internal/application/port"
)

// ErrInvalidReference is returned for links that carry no recognisable file id.
var ErrInvalidReference = errors.New("invalid receipt reference")

// DefaultMimeType is assumed when the file server does not report a type.
const DefaultMimeType = "image/jpeg"

var (
	pathIDPattern  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]{25,})`)
	queryIDPattern = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]{25,})`)
)

// ParseFileID extracts the drive file id from a share link of the form
// .../d/<id>/... or ...?id=<id>.
func ParseFileID(url string) (string, error) {
	if m := pathIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if m := queryIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReference, url)
}

// Receipt is a fetched receipt file.
type Receipt struct {
	FileID   string
	Data     []byte
	Base64   string
	MimeType string
}

// Fetcher downloads receipts through the file-serving collaborator. It keeps
// no cache; every call goes to the collaborator.
type Fetcher struct {
	files port.FileServer
}

// NewFetcher creates a Fetcher backed by files.
func NewFetcher(files port.FileServer) *Fetcher {
	return &Fetcher{files: files}
}

// Fetch resolves url and downloads the file it points to.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Receipt, error) {
	fileID, err := ParseFileID(url)
	if err != nil {
		return nil, err
	}
	return f.FetchByID(ctx, fileID)
}

// FetchByID downloads a file whose id is already known.
func (f *Fetcher) FetchByID(ctx context.Context, fileID string) (*Receipt, error) {
	file, err := f.files.GetFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, port.ErrFetchFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", port.ErrFetchFailed, err)
	}

	encoded := stripWhitespace(file.Base64)
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty file content for %s", port.ErrFetchFailed, fileID)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: file %s is not valid base64: %v", port.ErrFetchFailed, fileID, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file content for %s", port.ErrFetchFailed, fileID)
	}

	mimeType := strings.TrimSpace(file.MimeType)
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	return &Receipt{
		FileID:   fileID,
		Data:     data,
		Base64:   encoded,
		MimeType: mimeType,
	}, nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}
