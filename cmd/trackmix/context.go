package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"trackmix/internal/config"
	"trackmix/internal/deps"
	"trackmix/internal/jobs"
	"trackmix/internal/logging"
	"trackmix/internal/media/tracks"
	"trackmix/internal/mix"
	"trackmix/internal/watchlist"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	locatorOnce sync.Once
	locator     *deps.Locator
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds a logger whose console stream is the command's stderr.
func (c *commandContext) newLogger(stderr io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := logging.OptionsFromConfig(cfg)
	opts.Console = stderr
	return logging.New(opts)
}

func (c *commandContext) toolLocator() *deps.Locator {
	c.locatorOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		c.locator = deps.NewFromOptions(deps.Options{
			ResourceDir:   cfg.Tools.ResourceDir,
			DevToolsDir:   cfg.Tools.DevToolsDir,
			Development:   cfg.Tools.Development,
			UseSystemPath: cfg.Tools.UseSystemPath,
		})
	})
	return c.locator
}

func (c *commandContext) newProber(logger *slog.Logger) *tracks.Prober {
	cfg, _ := c.ensureConfig()
	return tracks.NewProber(c.toolLocator(),
		tracks.WithToolNames(cfg.Tools.FFprobe, cfg.Tools.MkvIdentify),
		tracks.WithTimeout(cfg.ProbeTimeout()),
		tracks.WithLogger(logger),
	)
}

// openJournal returns nil when the journal is disabled.
func (c *commandContext) openJournal() (*jobs.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Mix.JournalEnabled {
		return nil, nil
	}
	return jobs.Open(cfg)
}

func (c *commandContext) newExecutor(logger *slog.Logger, journal *jobs.Store) *mix.Executor {
	cfg, _ := c.ensureConfig()
	opts := []mix.Option{
		mix.WithMuxer(cfg.Tools.Mkvmerge),
		mix.WithParallelStages(cfg.Mix.ParallelStages),
		mix.WithStageTimeout(cfg.StageTimeout()),
		mix.WithLogger(logger),
	}
	if journal != nil {
		opts = append(opts, mix.WithJournal(journal))
	}
	return mix.NewExecutor(c.toolLocator(), cfg.Paths.TempDir, opts...)
}

func (c *commandContext) toolRequirements() []deps.Requirement {
	cfg, _ := c.ensureConfig()
	return deps.DefaultRequirements(cfg.Tools.FFprobe, cfg.Tools.MkvIdentify, cfg.Tools.Mkvmerge)
}

func (c *commandContext) watchlistStore() *watchlist.Store {
	cfg, _ := c.ensureConfig()
	return watchlist.New(cfg.WatchlistPath())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
