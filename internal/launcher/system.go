package launcher

import (
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// System starts launch targets on the host. A target is tried as
//
//  1. an absolute path that exists, opened directly;
//  2. a name found on PATH, spawned;
//  3. a shell command, best effort, only when it is the last target of an app.
//
// The shell reports success as soon as it starts, so trying it for an earlier
// target would hide every target after it.
//
// Processes are never awaited for a result and their output is discarded.
type System struct {
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	start    func(*exec.Cmd) error
}

func NewSystem() *System {
	return &System{
		lookPath: exec.LookPath,
		stat:     os.Stat,
		start:    detach,
	}
}

func (s *System) Start(target string, last bool) error {
	if target == "" {
		return errors.New("empty launch target")
	}

	if filepath.IsAbs(target) {
		if info, err := s.stat(target); err == nil {
			return s.start(openCommand(target, info))
		}
	}

	found, err := s.lookPath(target)
	if err == nil {
		return s.start(exec.Command(found))
	}
	if !last {
		return err
	}

	return s.start(shellCommand(target))
}

// detach starts cmd and reaps it in the background.
func detach(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("Launched process exited", "cmd", cmd.Args, "err", err)
		}
	}()
	return nil
}
