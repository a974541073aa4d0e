package handlers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/intake-core/internal/infrastructure/config"
)

func TestInitHandler_Handle_Success(t *testing.T) {
	t.Setenv("INTAKE_STORAGE_BACKEND", "")
	t.Setenv("INTAKE_SQLITE_PATH", "")
	tmpDir := t.TempDir()

	handler := NewInitHandler()

	result, err := handler.Handle(t.Context(), tmpDir)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.ConfigPath, "config.yaml")
	assert.Equal(t, config.BackendSQLite, result.Backend)
	assert.Contains(t, result.DatabasePath, "intake.db")

	// Verify config and blob directory were created
	assert.True(t, config.Exists(tmpDir))
	info, err := os.Stat(result.BlobDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitHandler_Handle_AlreadyInitialized(t *testing.T) {
	tmpDir := t.TempDir()

	// Initialize first
	err := config.WriteDefault(tmpDir)
	require.NoError(t, err)

	handler := NewInitHandler()

	_, err = handler.Handle(t.Context(), tmpDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}
