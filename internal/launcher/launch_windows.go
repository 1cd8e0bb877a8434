//go:build windows

package launcher

import (
	"os"
	"os/exec"
)

// openCommand hands the file to the shell association, like double-clicking it.
func openCommand(path string, _ os.FileInfo) *exec.Cmd {
	return exec.Command("cmd", "/C", "start", "", path)
}

func shellCommand(target string) *exec.Cmd {
	return exec.Command("cmd", "/C", "start", "", target)
}
