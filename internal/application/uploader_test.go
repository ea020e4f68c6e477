package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bnema/coach-cli/internal/domain"
	"github.com/bnema/coach-cli/internal/ports"
	"github.com/bnema/coach-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestUploaderSubmitRegistersActiveSessionWithGreeting(t *testing.T) {
	workspace, _ := newTestWorkspace(t, "older")
	remote := mocks.NewMockCoachService(t)
	uploader := NewUploader(workspace, remote, fixedClock(t, testNow), nil)

	remote.EXPECT().UploadResume(mockAnyContext(), mock.MatchedBy(func(req ports.UploadRequest) bool {
		return req.Content != nil && req.FileName == "cv.pdf" && req.Domain == "tech"
	})).Return(ports.UploadResponse{UserID: "u1", ParsedResume: domain.Document{"full_name": "Ada"}}, nil)

	result, err := uploader.Submit(context.Background(), &File{Name: "/home/ada/cv.pdf", Content: strings.NewReader("pdf bytes")}, " tech ")
	require.NoError(t, err)
	assert.Equal(t, StatusUploaded, result.Status)
	assert.Equal(t, domain.SessionID("u1"), result.Session.ID)
	assert.Equal(t, "cv.pdf", result.Session.Label)

	assert.Equal(t, domain.SessionID("u1"), workspace.ActiveID())
	sessions, err := workspace.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, domain.SessionID("u1"), sessions[0].ID)

	chat, ok, err := workspace.Active(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada", chat.Session.DisplayName())
	assert.Equal(t, []domain.Message{domain.NewBotMessage(GreetingText, testNow)}, chat.Messages)
}

func TestUploaderSubmitWithoutFile(t *testing.T) {
	workspace, kv := newTestWorkspace(t)
	uploader := NewUploader(workspace, mocks.NewMockCoachService(t), fixedClock(t, testNow), nil)

	result, err := uploader.Submit(context.Background(), nil, "")
	require.ErrorIs(t, err, domain.ErrNoFileSelected)
	assert.Equal(t, StatusNoFile, result.Status)

	result, err = uploader.Submit(context.Background(), &File{Name: "cv.pdf"}, "")
	require.ErrorIs(t, err, domain.ErrNoFileSelected)
	assert.Equal(t, StatusNoFile, result.Status)
	assert.Zero(t, kv.applyCount())
}

func TestUploaderSubmitFailuresLeaveSessionsUnchanged(t *testing.T) {
	cases := []struct {
		name       string
		resp       ports.UploadResponse
		remoteErr  error
		wantErr    error
		wantStatus string
	}{
		{name: "rejected", remoteErr: fmt.Errorf("%w: status 500", domain.ErrUploadRejected), wantErr: domain.ErrUploadRejected, wantStatus: StatusRejected},
		{name: "unreachable", remoteErr: fmt.Errorf("%w: dial tcp", domain.ErrUploadTransport), wantErr: domain.ErrUploadTransport, wantStatus: StatusUnreachable},
		{name: "unclassified error", remoteErr: errors.New("boom"), wantErr: domain.ErrUploadTransport, wantStatus: StatusUnreachable},
		{name: "blank user id", resp: ports.UploadResponse{UserID: "  "}, wantErr: domain.ErrUploadRejected, wantStatus: StatusRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			workspace, kv := newTestWorkspace(t, "existing")
			remote := mocks.NewMockCoachService(t)
			uploader := NewUploader(workspace, remote, fixedClock(t, testNow), nil)
			before := kv.applyCount()

			remote.EXPECT().UploadResume(mockAnyContext(), mock.Anything).Return(tc.resp, tc.remoteErr)

			result, err := uploader.Submit(context.Background(), &File{Name: "cv.pdf", Content: strings.NewReader("x")}, "")
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantStatus, result.Status)
			assert.Equal(t, before, kv.applyCount())
			assert.Equal(t, domain.SessionID("existing"), workspace.ActiveID())

			sessions, err := workspace.Sessions(context.Background())
			require.NoError(t, err)
			require.Len(t, sessions, 1)
		})
	}
}

func TestUploaderSubmitRegistrationFailure(t *testing.T) {
	workspace, kv := newTestWorkspace(t)
	remote := mocks.NewMockCoachService(t)
	uploader := NewUploader(workspace, remote, fixedClock(t, testNow), nil)
	kv.failApply = errors.New("read-only filesystem")

	remote.EXPECT().UploadResume(mockAnyContext(), mock.Anything).Return(ports.UploadResponse{UserID: "u1"}, nil)

	result, err := uploader.Submit(context.Background(), &File{Name: "cv.pdf", Content: strings.NewReader("x")}, "")
	require.Error(t, err)
	assert.Equal(t, StatusNotSaved, result.Status)
	assert.Empty(t, workspace.ActiveID())
}

func TestUploaderRejectsConcurrentSubmit(t *testing.T) {
	defer goleak.VerifyNone(t)

	workspace, _ := newTestWorkspace(t)
	remote := mocks.NewMockCoachService(t)
	uploader := NewUploader(workspace, remote, fixedClock(t, testNow), nil)

	started := make(chan struct{})
	release := make(chan struct{})
	remote.EXPECT().UploadResume(mockAnyContext(), mock.Anything).
		RunAndReturn(func(context.Context, ports.UploadRequest) (ports.UploadResponse, error) {
			close(started)
			<-release
			return ports.UploadResponse{UserID: "u1"}, nil
		}).Once()

	done := make(chan error)
	go func() {
		_, err := uploader.Submit(context.Background(), &File{Name: "a.pdf", Content: strings.NewReader("a")}, "")
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first upload never reached the service")
	}

	result, err := uploader.Submit(context.Background(), &File{Name: "b.pdf", Content: strings.NewReader("b")}, "")
	require.ErrorIs(t, err, domain.ErrUploadInProgress)
	assert.Equal(t, StatusBusy, result.Status)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, domain.SessionID("u1"), workspace.ActiveID())
}

func TestFileLabel(t *testing.T) {
	assert.Equal(t, "cv.pdf", fileLabel("/tmp/uploads/cv.pdf"))
	assert.Equal(t, defaultFileLabel, fileLabel("  "))
	assert.Equal(t, defaultFileLabel, fileLabel("/"))
}
