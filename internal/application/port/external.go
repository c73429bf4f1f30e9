package port

import (
	"context"
	"encoding/json"
	"io"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// RemoteFile is a file returned by the file-serving collaborator.
type RemoteFile struct {
	Base64   string
	MimeType string
}

// FileServer resolves shared-drive file ids to their content.
type FileServer interface {
	GetFile(ctx context.Context, fileID string) (*RemoteFile, error)
}

// SystemOfRecord is the spreadsheet-backed service that owns applications.
type SystemOfRecord interface {
	// ListApplications returns applications for month ("YYYY-MM"), or all when month is empty.
	ListApplications(ctx context.Context, month string) ([]*entity.Application, error)

	// SubmitCheck records a reviewer action and returns the service's JSON reply for relaying.
	SubmitCheck(ctx context.Context, submission entity.CheckSubmission) (json.RawMessage, error)
}

// LeaveSystem is the separate service holding leave requests.
type LeaveSystem interface {
	UpdateApproval(ctx context.Context, update entity.LeaveApprovalUpdate) (json.RawMessage, error)
	ListPaidLeave(ctx context.Context) (json.RawMessage, error)
}

// ModelRequest is a single receipt prompt sent to a vision-capable model.
type ModelRequest struct {
	System   string
	Prompt   string
	Data     []byte
	MimeType string
}

// ReceiptModel is a language model able to read a receipt document.
type ReceiptModel interface {
	// Name identifies the provider in logs.
	Name() string

	// Configured reports whether the credential needed by Complete is present.
	Configured() bool

	// CredentialName is the environment variable that holds the credential.
	CredentialName() string

	// Complete returns the model's raw text answer.
	Complete(ctx context.Context, req ModelRequest) (string, error)
}

// PDFInspector reads basic structure of a PDF before it is sent to a model.
type PDFInspector interface {
	PageCount(data []byte) (int, error)
}

// Identity is the verified subject of an identity token.
type Identity struct {
	UID   string
	Email string
}

// IdentityVerifier checks identity tokens issued by the sign-in provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// ApplicationExporter writes a list of applications as a downloadable file.
type ApplicationExporter interface {
	ContentType() string
	FileExtension() string
	Write(w io.Writer, apps []*entity.Application) error
}
