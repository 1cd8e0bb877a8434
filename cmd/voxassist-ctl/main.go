// voxassist-ctl sends a control command to a running voxassist.
//
// Usage:
//
//	voxassist-ctl [--socket path] stop|status
package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"voxassist/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath(), "Control socket path")
	cli.Parse()

	cmd := ipc.CmdStatus
	if cli.NArg() > 0 {
		cmd = cli.Arg(0)
	}

	reply, err := ipc.Send(*socket, cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "voxassist not reachable:", err)
		os.Exit(1)
	}

	fmt.Println(reply.State)
}
