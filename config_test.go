package feedbench

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"backend": "cassandra",
		"cassandra": {"cluster_hosts": ["10.0.0.1:9042"], "connection_timeout": 5000000000},
		"workload": {"workers": 2, "auto_reset": true}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FEEDBENCH_REDIS_URL", "redis://cache:6379/1")
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed, details: %v", err)
	}
	if c.Backend != Cassandra || c.Cassandra.ClusterHosts[0] != "10.0.0.1:9042" || c.Cassandra.ConnectionTimeout != 5*time.Second {
		t.Errorf("got %+v", c)
	}
	if c.Workload.Workers != 2 || !c.Workload.AutoReset || c.Workload.BatchSize != 5 {
		t.Errorf("workload got %+v", c.Workload)
	}
	if c.RedisURL != "redis://cache:6379/1" || c.Strategy != Pull {
		t.Errorf("env override got %s %s", c.RedisURL, c.Strategy)
	}
}

func TestLoadConfigRejectsStrategy(t *testing.T) {
	t.Setenv("FEEDBENCH_STRATEGY", "sideways")
	if _, err := LoadConfig(""); err == nil {
		t.Error("unknown strategy accepted")
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"": Pull, "pull": Pull, "push": Push} {
		if got, err := ParseStrategy(in); err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %s, %v", in, got, err)
		}
	}
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("empty version")
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{"": slog.LevelInfo, "DEBUG": slog.LevelDebug, "warn": slog.LevelWarn, "ERROR": slog.LevelError, "INFO+2": slog.LevelInfo + 2}
	for in, want := range cases {
		c := Config{LogLevelName: in}
		if got, err := c.LogLevel(); err != nil || got != want {
			t.Errorf("LogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if err := ConfigureLogging(Config{LogLevelName: "chatty"}); err == nil {
		t.Error("unknown level accepted")
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv("FEEDBENCH_LOG_LEVEL", "DEBUG")
	c, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed, details: %v", err)
	}
	if err := ConfigureLogging(c); err != nil {
		t.Fatal(err)
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default logger does not pass DEBUG")
	}
	t.Setenv("FEEDBENCH_LOG_LEVEL", "loud")
	if _, err := LoadConfig(""); err == nil {
		t.Error("LoadConfig accepted an unknown log level")
	}
}
