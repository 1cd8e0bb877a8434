//go:build !windows && !darwin

package launcher

import (
	"os"
	"os/exec"
)

// openCommand runs executables directly and passes anything else to the
// desktop opener.
func openCommand(path string, info os.FileInfo) *exec.Cmd {
	if info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
		return exec.Command(path)
	}
	return exec.Command("xdg-open", path)
}

func shellCommand(target string) *exec.Cmd {
	return exec.Command("sh", "-c", target)
}
