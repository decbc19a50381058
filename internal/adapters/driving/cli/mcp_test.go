package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_RequiresReviewService(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	_, err := run(t, "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingReviewService)
}
