package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive review console", tuiCmd.Short)
}

func TestTUICmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"tui", "--help"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "interactive review console")
	assert.Contains(t, buf.String(), "Controls:")
}

func TestTUICmd_NeedsTerminal(t *testing.T) {
	cleanup := setupTestServices(&Services{Review: &MockReviewService{}})
	defer cleanup()
	original := isTerminal
	isTerminal = func() bool { return false }
	defer func() { isTerminal = original }()

	_, err := run(t, "tui")

	assert.ErrorIs(t, err, errNoTerminal)
}

func TestRootCmd_DefaultsToTUI(t *testing.T) {
	cleanup := setupTestServices(&Services{Review: &MockReviewService{}})
	defer cleanup()
	original := isTerminal
	isTerminal = func() bool { return false }
	defer func() { isTerminal = original }()

	_, err := run(t)

	assert.ErrorIs(t, err, errNoTerminal)
}

func TestTUICmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	_, err := run(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "review service not configured")
}
