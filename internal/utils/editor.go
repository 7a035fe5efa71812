package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// EditorCommand returns the editor to launch: $VISUAL, then $EDITOR, then
// notepad on Windows or vi elsewhere.
func EditorCommand() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// OpenEditor opens path in the editor from EditorCommand and waits for it
// to exit.
func OpenEditor(path string) error {
	cmd := exec.Command(EditorCommand(), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}
