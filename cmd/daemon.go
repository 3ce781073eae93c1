package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/daemon"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve the snapshot, forecasts and savings over HTTP with periodic reload",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	runDir := filepath.Join(os.TempDir(), "estalvi")
	defaultPID := filepath.Join(runDir, "estalvid.pid")
	defaultLog := filepath.Join(runDir, "estalvid.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Reload interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// resolveDaemonFlags fills unset daemon flags from the config file.
func resolveDaemonFlags() {
	cfg := loadConfig()
	if flagDaemonAddr == "" {
		flagDaemonAddr = cfg.Daemon.Addr
	}
	if flagDaemonInterval == 0 {
		flagDaemonInterval = time.Duration(cfg.Daemon.RefreshIntervalSec) * time.Second
	}
	if flagDaemonEventsBuffer == 0 {
		flagDaemonEventsBuffer = cfg.Daemon.EventsBuffer
	}
}

func runDaemon(_ *cobra.Command, _ []string) error {
	resolveDaemonFlags()

	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground()
}

func startDaemonDetached() error {
	files := runtimeFiles{pidPath: flagDaemonPIDFile}
	if err := files.ensureNotRunning(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := childArgs(os.Args[1:])

	if err := files.prepare(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", flagDaemonAddr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	files := runtimeFiles{pidPath: flagDaemonPIDFile}
	if err := files.ensureNotRunning(); err != nil {
		return err
	}
	if err := files.prepare(); err != nil {
		return err
	}

	pid := os.Getpid()
	if err := files.writePID(pid); err != nil {
		return err
	}
	defer files.clear()

	appCfg := loadConfig()
	src := openSource(appCfg)

	state := daemonState{
		PID:       pid,
		Addr:      flagDaemonAddr,
		StartedAt: time.Now(),
		Source:    src.Name(),
	}
	_ = files.writeState(state)

	cfg := daemon.Config{
		Source:       src,
		Rand:         randSource(appCfg),
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
		OnReload: func(st daemon.Status) {
			if err := files.writeState(state.withStatus(st)); err != nil {
				log.Printf("estalvi daemon: writing state file: %v", err)
			}
		},
	}
	svc := daemon.New(cfg)

	fmt.Printf("  estalvi daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Reloading every %s from %s\n", flagDaemonInterval, src.Name())
	fmt.Printf("  Stop with: estalvi daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	resolveDaemonFlags()
	files := runtimeFiles{pidPath: flagDaemonPIDFile}
	pid, err := files.readPID()
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}

	alive := processAlive(pid)
	if !alive {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagDaemonAddr
	if st, err := files.readState(); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status request
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Source: %s\n", st.Source)
	if st.LastLoadAt.IsZero() {
		fmt.Printf("  Last load: pending\n")
	} else {
		fmt.Printf("  Last load: %s\n", st.LastLoadAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Load count: %d\n", st.LoadCount)
	if st.SnapshotID != "" {
		fmt.Printf("  Snapshot: %s\n", st.SnapshotID)
	}
	fmt.Printf("  Rows: %s\n", cli.FormatNumber(int64(st.Rows)))
	if st.InvalidDates > 0 || st.NonNumericValues > 0 {
		fmt.Printf("  Skipped dates: %d, non-numeric values: %d\n", st.InvalidDates, st.NonNumericValues)
	}
	fmt.Printf("  Stream subscribers: %d\n", st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	files := runtimeFiles{pidPath: flagDaemonPIDFile}
	pid, err := files.readPID()
	if err != nil {
		return errors.New("daemon is not running")
	}
	// Read before signalling: the daemon removes its files on exit.
	st, stErr := files.readState()

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			files.clear()
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			if stErr == nil {
				printStoppedState(st)
			}
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func printStoppedState(st daemonState) {
	fmt.Printf("  Served %s for %s\n", st.Source, time.Since(st.StartedAt).Round(time.Second))
	if st.SnapshotID == "" {
		fmt.Println("  No snapshot was loaded")
	} else {
		fmt.Printf("  Last snapshot: %s (%s rows, %d loads)\n",
			st.SnapshotID, cli.FormatNumber(int64(st.Rows)), st.LoadCount)
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
}
