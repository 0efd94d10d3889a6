package process

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
commands:
  - name: lint
    command: golangci-lint
    args: [run]
    pass_args: true
    pty: true
    env:
      NO_COLOR: ""
    description: Lint the tree
`), 0o600))

	cmds, err := LoadCommands(path)
	require.NoError(t, err)
	require.Contains(t, cmds, "lint")
	lint := cmds["lint"]
	assert.Equal(t, "golangci-lint", lint.Command)
	assert.Equal(t, []string{"run"}, lint.Args)
	assert.True(t, lint.PassArgs)
	assert.True(t, lint.PTY)
	assert.Equal(t, map[string]string{"NO_COLOR": ""}, lint.Environment)

	jsonPath := filepath.Join(dir, "commands.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"commands":[{"name":"ls","command":"ls"}]}`), 0o600))
	cmds, err = LoadCommands(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "ls", cmds["ls"].Command)
}

func TestLoadCommands_Missing(t *testing.T) {
	cmds, err := LoadCommands(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestIndex_Rejects(t *testing.T) {
	_, err := Index([]ProcessConfig{{Command: "ls"}})
	assert.ErrorContains(t, err, "missing name")

	_, err = Index([]ProcessConfig{{Name: "ls"}})
	assert.ErrorContains(t, err, "missing command")
}
