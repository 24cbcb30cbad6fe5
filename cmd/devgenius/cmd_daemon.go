package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/config"
)

const (
	pollInterval = 100 * time.Millisecond
	logTailBytes = 4096
)

var errDaemonBinary = errors.New("devgeniusd binary not found (build with 'go build ./cmd/devgeniusd')")

func cmdStart() error {
	if isRunning() {
		fmt.Println("✓ Daemon is already running")
		return nil
	}

	dir, err := config.EnsureDevGeniusDir()
	if err != nil {
		return fmt.Errorf("setup devgenius directory: %w", err)
	}
	bin, err := findDaemonBinary()
	if err != nil {
		return err
	}

	proc := exec.Command(bin)
	proc.Dir = dir
	configureDaemonProcess(proc)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", bin, err)
	}

	fmt.Print("Starting daemon")
	if !poll(30, isRunning) {
		fmt.Println(" ✗")
		return errors.New("daemon did not come up (see 'devgenius logs')")
	}
	fmt.Printf(" ✓\nListening on %s\n", daemonAddr)
	return nil
}

func cmdStop() error {
	if !isRunning() {
		fmt.Println("Daemon is not running")
		return nil
	}

	dir, err := config.DevGeniusDir()
	if err != nil {
		return err
	}
	pid, err := readPID(filepath.Join(dir, pidFile))
	if err != nil {
		return err
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal process %d: %w", pid, err)
	}

	fmt.Print("Stopping daemon")
	if !poll(50, func() bool { return !isRunning() }) {
		fmt.Println(" ✗")
		return fmt.Errorf("daemon (pid %d) is still running", pid)
	}
	fmt.Println(" ✓")
	return nil
}

// daemonStatus is the body of GET /v1/status
type daemonStatus struct {
	Status     string   `json:"status"`
	Version    string   `json:"version"`
	Backend    string   `json:"backend"`
	Mode       string   `json:"mode"`
	Providers  []string `json:"providers"`
	Challenges int      `json:"challenges"`
}

func cmdStatus() error {
	if !isRunning() {
		fmt.Println("Status: stopped")
		return nil
	}

	resp, err := http.Get(daemonAddr + "/v1/status")
	if err != nil {
		return fmt.Errorf("query daemon: %w", err)
	}
	defer resp.Body.Close()

	var st daemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	printStatus(os.Stdout, st, daemonAddr)
	return nil
}

func printStatus(w io.Writer, st daemonStatus, addr string) {
	providers := "none"
	if len(st.Providers) > 0 {
		providers = strings.Join(st.Providers, ", ")
	}
	rows := [][2]string{
		{"Status", st.Status},
		{"Version", st.Version},
		{"Advisor", st.Backend},
		{"Mode", st.Mode},
		{"Providers", providers},
		{"Challenges", strconv.Itoa(st.Challenges)},
		{"Address", addr},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-11s %s\n", r[0]+":", r[1])
	}
}

func cmdLogs() error {
	dir, err := config.DevGeniusDir()
	if err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(dir, "logs", "devgeniusd.log"))
	if os.IsNotExist(err) {
		fmt.Println("No log file yet. Run 'devgenius start' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer f.Close()

	return tailLog(f, os.Stdout, logTailBytes)
}

// tailLog copies the whole lines found in the last limit bytes of r to w.
func tailLog(r io.ReadSeeker, w io.Writer, limit int64) error {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	// Start one byte early so a cut that lands on a line boundary
	// discards only the preceding newline.
	start := size - limit - 1
	if _, err := r.Seek(max(start, 0), io.SeekStart); err != nil {
		return err
	}

	sc := bufio.NewScanner(r)
	if start > 0 && !sc.Scan() {
		return sc.Err()
	}
	for sc.Scan() {
		fmt.Fprintln(w, sc.Text())
	}
	return sc.Err()
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid file %s holds %q", path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

// poll checks cond up to attempts times, printing a dot between tries.
func poll(attempts int, cond func() bool) bool {
	for range attempts {
		time.Sleep(pollInterval)
		if cond() {
			return true
		}
		fmt.Print(".")
	}
	return false
}

// isRunning reports whether the daemon answers its health check.
func isRunning() bool {
	c := &http.Client{Timeout: time.Second}
	resp, err := c.Get(daemonAddr + "/v1/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// findDaemonBinary looks on PATH, then beside the running executable.
func findDaemonBinary() (string, error) {
	if p, err := exec.LookPath("devgeniusd"); err == nil {
		return p, nil
	}
	if self, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(self), "devgeniusd")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errDaemonBinary
}
