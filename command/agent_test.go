package command

import (
	"testing"

	"github.com/hashicorp/cli"
	"github.com/stretchr/testify/require"
)

func TestAgentCommand_Implements(t *testing.T) {
	var _ cli.Command = &AgentCommand{}
}

func TestAgentCommand_Synopsis(t *testing.T) {
	cmd := &AgentCommand{Ui: cli.NewMockUi()}
	require.NotEmpty(t, cmd.Synopsis())
}

func TestAgentCommand_Help(t *testing.T) {
	cmd := &AgentCommand{Ui: cli.NewMockUi()}
	require.Contains(t, cmd.Help(), "Usage: snark-task-server agent")
	require.Contains(t, cmd.Help(), "-exit-timeout-after-task-done")
}

func TestAgentCommand_BadFlagFails(t *testing.T) {
	ui := cli.NewMockUi()
	cmd := &AgentCommand{Ui: ui}

	code := cmd.Run([]string{"-not-a-real-flag"})
	require.Equal(t, 1, code)
}

func TestAgentCommand_MissingEnvFileFails(t *testing.T) {
	ui := cli.NewMockUi()
	cmd := &AgentCommand{Ui: ui}

	code := cmd.Run([]string{"-env-file=/does/not/exist"})
	require.Equal(t, 1, code)
	require.Contains(t, ui.ErrorWriter.String(), "error reading -env-file")
}
