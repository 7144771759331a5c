package feedbench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackendType names a backend implementation.
type BackendType string

const (
	Postgres  BackendType = "postgres"
	SQLite    BackendType = "sqlite"
	Redis     BackendType = "redis"
	Cassandra BackendType = "cassandra"
)

// Strategy selects how the key-value backend keeps home timelines.
type Strategy string

const (
	// Pull merges followees' tweets at read time.
	Pull Strategy = "pull"
	// Push writes every tweet into its author's followers' timelines at post time.
	Push Strategy = "push"
)

// ParseStrategy accepts "pull" or "push"; empty defaults to Pull.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", Pull:
		return Pull, nil
	case Push:
		return Push, nil
	}
	return "", fmt.Errorf("unknown fan-out strategy %q", s)
}

// CassandraConfig holds configuration for connecting to a Cassandra cluster.
type CassandraConfig struct {
	// ClusterHosts lists contact points for the cluster.
	ClusterHosts []string `json:"cluster_hosts"`
	// Keyspace holds the feed tables.
	Keyspace string `json:"keyspace,omitempty"`
	// ConnectionTimeout is the session connection timeout.
	ConnectionTimeout time.Duration `json:"connection_timeout,omitempty"`
}

// WorkloadConfig describes what the benchmark driver runs.
type WorkloadConfig struct {
	// TweetsFile and FollowsFile are CSV datasets.
	TweetsFile  string `json:"tweets_file,omitempty"`
	FollowsFile string `json:"follows_file,omitempty"`
	// BatchSize is the number of rows per MultiSet.
	BatchSize int `json:"batch_size,omitempty"`
	// Workers is the number of concurrent timeline readers.
	Workers int `json:"workers,omitempty"`
	// TimelineReads is the total number of timeline fetches.
	TimelineReads int `json:"timeline_reads,omitempty"`
	// AutoReset wipes the backend before loading.
	AutoReset bool `json:"auto_reset"`
}

// Config is the benchmark configuration. Connection strings are opaque to this package.
type Config struct {
	Backend  BackendType `json:"backend"`
	Strategy Strategy    `json:"strategy,omitempty"`
	// PostgresURI is a lib/pq connection string.
	PostgresURI string `json:"postgres_uri,omitempty"`
	// SQLitePath is the database file for the embedded relational backend.
	SQLitePath string `json:"sqlite_path,omitempty"`
	// RedisURL is a redis:// URL.
	RedisURL  string          `json:"redis_url,omitempty"`
	Cassandra CassandraConfig `json:"cassandra"`
	Workload  WorkloadConfig  `json:"workload"`
	// LogLevelName is DEBUG, INFO, WARN or ERROR.
	LogLevelName string `json:"log_level,omitempty"`
}

// DefaultConfig returns local defaults for every backend.
func DefaultConfig() Config {
	return Config{
		Backend:     Redis,
		Strategy:    Pull,
		PostgresURI: "user=postgres host=localhost port=5432 sslmode=disable",
		SQLitePath:  filepath.Join(os.TempDir(), "feedbench.db"),
		RedisURL:    "redis://localhost:6379/0",
		Cassandra: CassandraConfig{
			ClusterHosts: []string{"localhost:9042"},
			Keyspace:     "feedbench",
		},
		Workload: WorkloadConfig{
			BatchSize:     5,
			Workers:       8,
			TimelineReads: 1000,
		},
	}
}

// LoadConfig reads a JSON config file over DefaultConfig and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path != "" {
		ba, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := json.Unmarshal(ba, &config); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	config.ApplyEnv()
	if _, err := ParseStrategy(string(config.Strategy)); err != nil {
		return Config{}, err
	}
	if _, err := config.LogLevel(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ApplyEnv overrides connection and log settings from FEEDBENCH_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FEEDBENCH_BACKEND"); v != "" {
		c.Backend = BackendType(v)
	}
	if v := os.Getenv("FEEDBENCH_STRATEGY"); v != "" {
		c.Strategy = Strategy(v)
	}
	if v := os.Getenv("FEEDBENCH_POSTGRES_URI"); v != "" {
		c.PostgresURI = v
	}
	if v := os.Getenv("FEEDBENCH_SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("FEEDBENCH_REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("FEEDBENCH_LOG_LEVEL"); v != "" {
		c.LogLevelName = v
	}
}
