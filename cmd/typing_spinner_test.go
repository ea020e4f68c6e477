package cmd

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingModelShowsElapsedTimeAfterOneSecond(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	model := newPendingModel(typingLabel, nil, func() time.Time { return now })

	assert.Contains(t, model.View(), typingLabel)
	assert.NotContains(t, model.View(), "0s")

	now = now.Add(2500 * time.Millisecond)
	assert.Contains(t, model.View(), typingLabel+" 2s")
}

func TestPendingModelClearsLineAndKeepsErrorWhenDone(t *testing.T) {
	model := newPendingModel(uploadingLabel, nil, nil)
	workErr := errors.New("upload failed")

	updated, cmd := model.Update(pendingDoneMsg{err: workErr})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	final, ok := updated.(pendingModel)
	require.True(t, ok)
	assert.Empty(t, final.View())
	assert.ErrorIs(t, final.err(), workErr)
}
