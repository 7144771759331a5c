package feedbench

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var logLevel = new(slog.LevelVar)

// LogLevel parses the configured level name. Empty means INFO; slog offsets such as
// "DEBUG+2" are accepted.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(c.LogLevelName) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevelName))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevelName, err)
	}
	return level, nil
}

// ConfigureLogging installs a text handler on stdout as the default logger, filtered at
// the config's level. Backend adapters log commits and batches at DEBUG.
func ConfigureLogging(c Config) error {
	level, err := c.LogLevel()
	if err != nil {
		return err
	}
	logLevel.Set(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
	return nil
}
