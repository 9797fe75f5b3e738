package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg := Default()
	cfg.Channels.Telegram.Enabled = true
	cfg.Pairing.HandshakeTimeoutSec = 60
	cfg.Pairing.IdleIntervalSec = 1

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Channels.Telegram.Enabled {
		t.Error("telegram enabled flag lost in roundtrip")
	}
	if loaded.Pairing.HandshakeTimeoutSec != 60 {
		t.Errorf("handshake timeout = %d, want 60", loaded.Pairing.HandshakeTimeoutSec)
	}
	if loaded.Pairing.IdleIntervalSec != 1 {
		t.Errorf("idle interval = %d, want 1", loaded.Pairing.IdleIntervalSec)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestPairingDurations(t *testing.T) {
	p := PairingConfig{
		HandshakeTimeoutSec: 300,
		ChallengeTimeoutSec: 120,
		PollTimeoutSec:      30,
		IdleIntervalSec:     2,
	}

	if got := p.HandshakeTimeout(); got != 300*time.Second {
		t.Errorf("HandshakeTimeout() = %v", got)
	}
	if got := p.ChallengeTimeout(); got != 120*time.Second {
		t.Errorf("ChallengeTimeout() = %v", got)
	}
	if got := p.PollTimeout(); got != 30*time.Second {
		t.Errorf("PollTimeout() = %v", got)
	}
	if got := p.IdleInterval(); got != 2*time.Second {
		t.Errorf("IdleInterval() = %v", got)
	}
}

func TestPairingDurationsZeroMeansDefault(t *testing.T) {
	var p PairingConfig
	if p.HandshakeTimeout() != 0 || p.PollTimeout() != 0 {
		t.Error("zero config should yield zero durations (flow applies defaults)")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	if got := ExpandHome("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("ExpandHome(~/x/y) = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome(/abs/path) = %q", got)
	}
	if got := ExpandHome("rel/path"); got != "rel/path" {
		t.Errorf("ExpandHome(rel/path) = %q", got)
	}
}
