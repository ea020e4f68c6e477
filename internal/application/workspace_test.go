package application

import (
	"context"
	"testing"

	"github.com/bnema/coach-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceRestoreUsesPersistedActiveSession(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	first := NewWorkspace(store, nil)
	require.NoError(t, first.Register(ctx, domain.Session{ID: "a"}, nil))
	require.NoError(t, first.Register(ctx, domain.Session{ID: "b"}, nil))
	_, err := first.Activate(ctx, "a")
	require.NoError(t, err)

	reloaded := NewWorkspace(store, nil)
	active, err := reloaded.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("a"), active)
	assert.Equal(t, domain.SessionID("a"), reloaded.ActiveID())
}

func TestWorkspaceRestoreFallsBackToMostRecentSession(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, domain.Session{ID: "old"}))
	require.NoError(t, store.Upsert(ctx, domain.Session{ID: "new"}))

	workspace := NewWorkspace(store, nil)
	active, err := workspace.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("new"), active)
}

func TestWorkspaceRestoreWithoutSessions(t *testing.T) {
	store, _ := newTestSessionStore(t)

	workspace := NewWorkspace(store, nil)
	active, err := workspace.Restore(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	_, ok, err := workspace.Active(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkspaceActivateUnknownSessionKeepsCurrent(t *testing.T) {
	workspace, _ := newTestWorkspace(t, "a")

	_, err := workspace.Activate(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, domain.SessionID("a"), workspace.ActiveID())
}

func TestWorkspaceDeleteActiveReactivatesMostRecent(t *testing.T) {
	workspace, _ := newTestWorkspace(t, "a", "b", "c")
	ctx := context.Background()
	require.Equal(t, domain.SessionID("c"), workspace.ActiveID())

	require.NoError(t, workspace.Delete(ctx, "c"))
	assert.Equal(t, domain.SessionID("b"), workspace.ActiveID())

	persisted, err := workspace.Store().ActiveID(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("b"), persisted)

	require.NoError(t, workspace.Delete(ctx, "a"))
	assert.Equal(t, domain.SessionID("b"), workspace.ActiveID())

	require.NoError(t, workspace.Delete(ctx, "b"))
	assert.Empty(t, workspace.ActiveID())
}

func TestWorkspaceClearLogKeepsSession(t *testing.T) {
	workspace, _ := newTestWorkspace(t)
	ctx := context.Background()
	require.NoError(t, workspace.Register(ctx, domain.Session{ID: "a"}, []domain.Message{domain.NewBotMessage(GreetingText, testNow)}))

	require.NoError(t, workspace.ClearLog(ctx, "a"))

	chat, err := workspace.Session(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, chat.Messages)
	_, ok := chat.LastMessage()
	assert.False(t, ok)
}

func TestWorkspaceRegisterPaddedIDActivatesTrimmedSession(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()
	workspace := NewWorkspace(store, nil)

	require.NoError(t, workspace.Register(ctx, domain.Session{ID: " u1 "}, []domain.Message{domain.NewBotMessage(GreetingText, testNow)}))
	assert.Equal(t, domain.SessionID("u1"), workspace.ActiveID())

	chat, ok, err := workspace.Active(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, chat.Messages, 1)

	require.NoError(t, workspace.Delete(ctx, " u1 "))
	assert.Empty(t, workspace.ActiveID())
}
