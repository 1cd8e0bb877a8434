// Package ipc is the local control channel of the assistant: one JSON
// command per unix-socket connection.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"
)

const (
	CmdStop   = "stop"
	CmdStatus = "status"
)

var ErrUnknownCommand = errors.New("unknown command")

func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), "voxassist.sock")
}

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

type ControlReply struct {
	OK    bool   `json:"ok"`
	State string `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

// Handler answers one control message.
type Handler func(ControlMessage) ControlReply

type Server struct {
	path string
	ln   net.Listener
}

// Listen removes a stale socket at path and serves handler on it until
// Close is called.
func Listen(path string, handler Handler) (*Server, error) {
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}

	s := &Server{path: path, ln: ln}
	go s.serve(handler)

	slog.Info("Control socket listening", "path", path)
	return s, nil
}

func (s *Server) serve(handler Handler) {
	for {
		conn, err := s.ln.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if err != nil {
			slog.Warn("Control accept failed", "err", err)
			continue
		}
		go handleConn(conn, handler)
	}
}

func handleConn(conn net.Conn, handler Handler) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		slog.Warn("Bad control message", "err", err)
		return
	}

	slog.Debug("Control message", "cmd", msg.Cmd)
	_ = json.NewEncoder(conn).Encode(handler(msg))
}

func (s *Server) Close() error {
	err := s.ln.Close()
	_ = os.Remove(s.path)
	return err
}

// Send delivers cmd to the server at path and waits for its reply.
func Send(path, cmd string) (ControlReply, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return ControlReply{}, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	if err := json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd}); err != nil {
		return ControlReply{}, err
	}

	var reply ControlReply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return ControlReply{}, fmt.Errorf("read reply: %w", err)
	}
	if !reply.OK && reply.Error != "" {
		return reply, fmt.Errorf("%s: %s", cmd, reply.Error)
	}
	return reply, nil
}
