// Package editor opens the user's editor on a temporary file.
package editor

import (
	"os"
	"os/exec"
	"strings"
)

// DefaultCommand is used when neither the config nor $EDITOR names one.
const DefaultCommand = "vi"

// Editor resolves and runs an editor command.
type Editor struct {
	command string
}

// NewEditor creates an Editor. command is the configured editor and may be
// empty.
func NewEditor(command string) *Editor {
	return &Editor{command: command}
}

// Resolve returns the editor command to use.
// Order: config > $EDITOR > vi
func (e *Editor) Resolve() string {
	if e.command != "" {
		return e.command
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return DefaultCommand
}

// Edit opens the editor with the given content and returns the edited content.
func (e *Editor) Edit(content string) (string, error) {
	tmpFile, err := os.CreateTemp("", "trellis-edit-*.md")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	// Editors like "code --wait" carry their own arguments.
	parts := strings.Fields(e.Resolve())
	cmd := exec.Command(parts[0], append(parts[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}
	return string(edited), nil
}
