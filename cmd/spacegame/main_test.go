package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kodebolds/engine/internal/config"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	log, err := newLogger(config.LoggingConfig{Level: "debug", Format: "console", File: path})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hello")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "hello") {
		t.Errorf("log file = %q", b)
	}
}

func TestStartProfileOff(t *testing.T) {
	if stop := startProfile(config.ProfileConfig{}); stop != nil {
		t.Error("profiling started with no mode")
	}
}
