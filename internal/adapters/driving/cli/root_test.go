package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "arielle", rootCmd.Use)
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"start", "ask", "search", "chat", "index", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestServices_CloseRunsCleanupOnce(t *testing.T) {
	calls := 0
	svc := &Services{Cleanup: func() { calls++ }}

	svc.Close()
	svc.Close()
	assert.Equal(t, 1, calls)

	var nilSvc *Services
	assert.NotPanics(t, nilSvc.Close)
}

func TestLoadServices_BuilderError(t *testing.T) {
	orig := buildServices
	SetServiceBuilder(func(context.Context, Overrides) (*Services, error) {
		return nil, domain.ErrVectorStoreUnavailable
	})
	defer func() { buildServices = orig }()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := loadServices(cmd, Overrides{})
	assert.True(t, errors.Is(err, domain.ErrVectorStoreUnavailable))
}

func TestLoadServices_PrintsWarningsToStderr(t *testing.T) {
	mocks, cleanup := setupTestMocks()
	defer cleanup()
	mocks.warnings = []string{"embedding service unreachable"}

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	svc, err := loadServices(cmd, Overrides{})
	require.NoError(t, err)
	defer svc.Close()

	assert.Empty(t, stdout.String())
	assert.Equal(t, "Warning: embedding service unreachable\n", stderr.String())
}

func TestCurrentSettings_FallsBackToDefaults(t *testing.T) {
	orig := settingsService
	SetSettingsService(nil)
	defer func() { settingsService = orig }()

	assert.Equal(t, domain.DefaultAppSettings(), currentSettings())
}

func TestExecute_UnknownCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"frobnicate"})
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "frobnicate"`)
}
