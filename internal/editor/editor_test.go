package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "hx", NewEditor("hx").Resolve())
	assert.Equal(t, "nano", NewEditor("").Resolve())

	t.Setenv("EDITOR", "")
	assert.Equal(t, DefaultCommand, NewEditor("").Resolve())
}

func TestEdit_RunsCommandOnTempFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}
	script := filepath.Join(t.TempDir(), "append.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf ' edited' >> \"$2\"\n"), 0755))

	// The configured command carries an argument before the file path.
	out, err := NewEditor(script + " --wait").Edit("draft")
	require.NoError(t, err)
	assert.Equal(t, "draft edited", out)
}
