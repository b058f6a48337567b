package ports

import "os/exec"

// EditorOpener opens task files in an external editor.
type EditorOpener interface {
	// OpenFile opens the file in the user's preferred editor, using
	// $EDITOR with fallbacks to common editors.
	OpenFile(path string) error

	// Command returns the exec.Cmd that would open the file, for
	// integration with bubbletea's ExecProcess.
	Command(path string) (*exec.Cmd, error)
}
