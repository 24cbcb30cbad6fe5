package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"WARN":    slog.LevelWarn,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		if got := parseLogLevel(input); got != want {
			t.Errorf("parseLogLevel(%q) = %v; want %v", input, got, want)
		}
	}
}

func TestTeeHandler(t *testing.T) {
	var file, console bytes.Buffer
	logger := slog.New(newTeeHandler(&file, &console, slog.LevelInfo))

	logger.Debug("hidden")
	logger.With("component", "test").WithGroup("req").Info("served", "status", 200)

	var record map[string]any
	if err := json.Unmarshal(file.Bytes(), &record); err != nil {
		t.Fatalf("file output is not one JSON record: %v\n%s", err, file.String())
	}
	if record["msg"] != "served" || record["component"] != "test" {
		t.Errorf("record = %v", record)
	}
	if group, ok := record["req"].(map[string]any); !ok || group["status"] != float64(200) {
		t.Errorf("req group = %v", record["req"])
	}

	out := console.String()
	if !strings.Contains(out, "msg=served") || !strings.Contains(out, "req.status=200") {
		t.Errorf("console output = %q", out)
	}
	if strings.Contains(out, "hidden") || strings.Contains(file.String(), "hidden") {
		t.Error("debug record should be filtered")
	}
}

func TestWritePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), pidFileName)
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("pid file = %q; want %d", got, os.Getpid())
	}
}

func TestInstallLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "devgeniusd.log")
	closeLog, err := installLogger(path, slog.LevelWarn)
	if err != nil {
		t.Fatalf("installLogger() error = %v", err)
	}
	slog.Info("quiet")
	slog.Warn("loud", "n", 1)
	if err := closeLog(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), `"msg":"loud"`) {
		t.Errorf("log file = %q", data)
	}
}
