package ports

//go:generate mockery --config ../../.mockery.yaml

import (
	"context"
	"io"

	"github.com/bnema/coach-cli/internal/domain"
)

type UploadRequest struct {
	FileName string
	Content  io.Reader
	Domain   string
}

type UploadResponse struct {
	UserID       string
	ParsedResume domain.Document
}

// CoachService is the remote resume-analysis service.
type CoachService interface {
	UploadResume(ctx context.Context, req UploadRequest) (UploadResponse, error)
	// Chat returns the decoded reply object without any validation.
	Chat(ctx context.Context, id domain.SessionID, message string) (map[string]any, error)
}
