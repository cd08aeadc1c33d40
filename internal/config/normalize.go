package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeMix()
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	// An empty log dir disables file logging.
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	if value, ok := os.LookupEnv(toolsDirEnvVar); ok && strings.TrimSpace(value) != "" {
		c.Tools.ResourceDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Tools.ResourceDir) == "" {
		c.Tools.ResourceDir = executableResourceDir()
	}
	if c.Tools.ResourceDir, err = expandPath(c.Tools.ResourceDir); err != nil {
		return fmt.Errorf("tools.resource_dir: %w", err)
	}
	if strings.TrimSpace(c.Tools.DevToolsDir) == "" {
		c.Tools.DevToolsDir = defaultDevToolsDir
	}
	if c.Tools.DevToolsDir, err = expandPath(c.Tools.DevToolsDir); err != nil {
		return fmt.Errorf("tools.dev_tools_dir: %w", err)
	}
	if value, ok := os.LookupEnv(developmentEnvVar); ok {
		if enabled, parseErr := strconv.ParseBool(strings.TrimSpace(value)); parseErr == nil {
			c.Tools.Development = enabled
		}
	}
	c.Tools.FFprobe = defaultString(c.Tools.FFprobe, defaultFFprobeBinary)
	c.Tools.MkvIdentify = defaultString(c.Tools.MkvIdentify, defaultMkvmergeBinary)
	c.Tools.Mkvmerge = defaultString(c.Tools.Mkvmerge, defaultMkvmergeBinary)
	return nil
}

func (c *Config) normalizeMix() {
	if c.Mix.StageTimeoutSeconds < 0 {
		c.Mix.StageTimeoutSeconds = 0
	}
	if c.Mix.ProbeTimeoutSeconds < 0 {
		c.Mix.ProbeTimeoutSeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv(logLevelEnvVar); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}

// executableResourceDir returns "bin" next to the running executable, the
// layout used by packaged builds.
func executableResourceDir() string {
	exe, err := os.Executable()
	if err != nil {
		return defaultResourceSubdir
	}
	return filepath.Join(filepath.Dir(exe), defaultResourceSubdir)
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
