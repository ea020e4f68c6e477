package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bnema/coach-cli/internal/domain"
	"github.com/bnema/coach-cli/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	GreetingText = "Resume uploaded. Ask me career or skills questions!"

	StatusNoFile      = "Please select a file."
	StatusBusy        = "An upload is already in progress."
	StatusUploaded    = "Resume processed successfully!"
	StatusRejected    = "Failed to process resume."
	StatusUnreachable = "Error uploading resume."
	StatusNotSaved    = "Resume processed but the session could not be saved."

	defaultFileLabel = "resume"
)

type File struct {
	Name    string
	Content io.Reader
}

// UploadResult always carries a status line fit for display, including on
// failure.
type UploadResult struct {
	Session domain.Session
	Status  string
}

type Uploader struct {
	workspace *Workspace
	remote    ports.CoachService
	clock     ports.Clock
	logger    *zap.Logger
	gate      *semaphore.Weighted
}

func NewUploader(workspace *Workspace, remote ports.CoachService, clock ports.Clock, logger *zap.Logger) *Uploader {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Uploader{
		workspace: workspace,
		remote:    remote,
		clock:     clock,
		logger:    logger,
		gate:      semaphore.NewWeighted(1),
	}
}

// Submit uploads file and, on success, registers the returned session as
// the active one with a greeting as its only message. On failure the stored
// sessions are left untouched.
func (u *Uploader) Submit(ctx context.Context, file *File, domainHint string) (UploadResult, error) {
	if file == nil || file.Content == nil {
		return UploadResult{Status: StatusNoFile}, domain.ErrNoFileSelected
	}

	if !u.gate.TryAcquire(1) {
		return UploadResult{Status: StatusBusy}, domain.ErrUploadInProgress
	}
	defer u.gate.Release(1)

	label := fileLabel(file.Name)
	resp, err := u.remote.UploadResume(ctx, ports.UploadRequest{
		FileName: label,
		Content:  file.Content,
		Domain:   strings.TrimSpace(domainHint),
	})
	if err != nil {
		u.logger.Warn("resume upload failed", zap.String("file", label), zap.Error(err))
		if errors.Is(err, domain.ErrUploadRejected) {
			return UploadResult{Status: StatusRejected}, err
		}
		if !errors.Is(err, domain.ErrUploadTransport) {
			err = fmt.Errorf("%w: %w", domain.ErrUploadTransport, err)
		}
		return UploadResult{Status: StatusUnreachable}, err
	}

	id := domain.NormalizeSessionID(resp.UserID)
	if id == "" {
		return UploadResult{Status: StatusRejected}, fmt.Errorf("%w: response has no user_id", domain.ErrUploadRejected)
	}

	now := u.clock.Now()
	session := domain.Session{
		ID:        id,
		Label:     label,
		Document:  resp.ParsedResume,
		CreatedAt: now,
	}

	if err := u.workspace.Register(ctx, session, []domain.Message{domain.NewBotMessage(GreetingText, now)}); err != nil {
		u.logger.Error("register uploaded session", zap.String("session", string(id)), zap.Error(err))
		return UploadResult{Status: StatusNotSaved}, fmt.Errorf("register session: %w", err)
	}

	u.logger.Info("registered session", zap.String("session", string(id)), zap.String("file", label))
	return UploadResult{Session: session, Status: StatusUploaded}, nil
}

func fileLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultFileLabel
	}

	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return defaultFileLabel
	}

	return base
}
