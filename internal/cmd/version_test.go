package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd(t *testing.T) {
	old := Version
	Version = "1.2.3"
	t.Cleanup(func() { Version = old })

	out := captureStdout(t, func() {
		versionCmd.Run(versionCmd, nil)
	})
	assert.Contains(t, out, "nodepick 1.2.3\n")
	assert.Contains(t, out, "commit: ")
}

func TestRootCmd_Commands(t *testing.T) {
	names := map[string]string{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = c.GroupID
	}

	assert.Equal(t, groupCore, names["pick"])
	assert.Equal(t, groupCore, names["nodes"])
	assert.Equal(t, groupCore, names["history"])
	assert.Equal(t, groupSetup, names["config"])
	assert.Equal(t, groupSetup, names["version"])
}
