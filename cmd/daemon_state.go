package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/estalvi/internal/daemon"
)

// daemonState is written next to the pid file and refreshed after every
// reload, so `daemon stop` can report what was being served without the API.
type daemonState struct {
	PID        int       `json:"pid"`
	Addr       string    `json:"addr"`
	StartedAt  time.Time `json:"started_at"`
	Source     string    `json:"source"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	LastLoadAt time.Time `json:"last_load_at,omitzero"`
	LoadCount  int64     `json:"load_count"`
	Rows       int       `json:"rows"`
	LastError  string    `json:"last_error,omitempty"`
}

// withStatus copies the reload outcome from a daemon status.
func (s daemonState) withStatus(st daemon.Status) daemonState {
	s.SnapshotID = st.SnapshotID
	s.LastLoadAt = st.LastLoadAt
	s.LoadCount = st.LoadCount
	s.Rows = st.Rows
	s.LastError = st.LastError
	return s
}

// runtimeFiles is the pid file plus its JSON state file.
type runtimeFiles struct {
	pidPath string
}

func (f runtimeFiles) statePath() string {
	return f.pidPath + ".json"
}

func (f runtimeFiles) prepare() error {
	if err := os.MkdirAll(filepath.Dir(f.pidPath), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	return nil
}

func (f runtimeFiles) writePID(pid int) error {
	return os.WriteFile(f.pidPath, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func (f runtimeFiles) readPID() (int, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(f.pidPath)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", f.pidPath)
	}
	return pid, nil
}

// writeState replaces the state file through a rename so readers never see
// a half-written file.
func (f runtimeFiles) writeState(st daemonState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.statePath() + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.statePath())
}

func (f runtimeFiles) readState() (daemonState, error) {
	var st daemonState
	//nolint:gosec // daemon state path is configured by the local user
	data, err := os.ReadFile(f.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func (f runtimeFiles) clear() {
	_ = os.Remove(f.pidPath)
	_ = os.Remove(f.statePath())
}

// ensureNotRunning clears stale files and fails when a live daemon owns them.
func (f runtimeFiles) ensureNotRunning() error {
	pid, err := f.readPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	f.clear()
	return nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// childArgs rebuilds the command line for the detached child: --detach is
// dropped and --child marks the re-exec.
func childArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") || a == "--child" {
			continue
		}
		out = append(out, a)
	}
	return append(out, "--child")
}
