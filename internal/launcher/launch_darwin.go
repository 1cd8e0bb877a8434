//go:build darwin

package launcher

import (
	"os"
	"os/exec"
)

func openCommand(path string, _ os.FileInfo) *exec.Cmd {
	return exec.Command("open", path)
}

// shellCommand asks LaunchServices for an application by name ("Safari").
func shellCommand(target string) *exec.Cmd {
	return exec.Command("open", "-a", target)
}
