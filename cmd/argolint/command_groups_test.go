//go:build !integration

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(name string) *cobra.Command {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

// TestCommandGroupAssignments verifies that commands are assigned to appropriate groups
func TestCommandGroupAssignments(t *testing.T) {
	tests := []struct {
		name          string
		commandName   string
		expectedGroup string
	}{
		{name: "validate command in validation group", commandName: "validate", expectedGroup: "validation"},
		{name: "version command without group", commandName: "version", expectedGroup: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := findCommand(tt.commandName)
			require.NotNil(t, cmd, "command %q should be registered", tt.commandName)
			assert.Equal(t, tt.expectedGroup, cmd.GroupID)
		})
	}
}

// TestCommandGroupsExist verifies that all expected command groups exist
func TestCommandGroupsExist(t *testing.T) {
	titles := make(map[string]string)
	for _, group := range rootCmd.Groups() {
		titles[group.ID] = group.Title
	}

	assert.Equal(t, map[string]string{"validation": "Validation Commands:"}, titles)
}

func TestRootCommandSilencesCobraOutput(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage, "errors are printed once by main, without usage")
	assert.True(t, rootCmd.SilenceErrors)
}
