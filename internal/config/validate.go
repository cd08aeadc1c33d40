package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTools() error {
	for key, name := range map[string]string{
		"tools.ffprobe":      c.Tools.FFprobe,
		"tools.mkv_identify": c.Tools.MkvIdentify,
		"tools.mkvmerge":     c.Tools.Mkvmerge,
	} {
		if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
			return fmt.Errorf("%s must be a binary name, not a path (got %q); set tools.resource_dir instead", key, name)
		}
	}
	return nil
}

func (c *Config) validateAPI() error {
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind: %w", err)
	}
	if c.API.RateLimit < 0 {
		return errors.New("api.rate_limit must be >= 0")
	}
	if c.API.RateBurst < 0 {
		return errors.New("api.rate_burst must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
}
