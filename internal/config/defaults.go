package config

const (
	defaultConfigPath       = "~/.config/trackmix/config.toml"
	defaultTempDir          = "~/.local/share/trackmix/mix-temp"
	defaultStateDir         = "~/.local/share/trackmix"
	defaultLogDir           = "~/.local/share/trackmix/logs"
	defaultDevToolsDir      = "../public/tools"
	defaultFFprobeBinary    = "ffprobe"
	defaultMkvmergeBinary   = "mkvmerge"
	defaultAPIBind          = "127.0.0.1:7488"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogMaxSizeMB     = 20
	defaultLogMaxBackups    = 5
	defaultLogMaxAgeDays    = 30
	defaultResourceSubdir   = "bin"
	defaultJournalEnabled   = true
	defaultParallelStages   = false
	defaultStageTimeoutSecs = 0
	defaultProbeTimeoutSecs = 0
	developmentEnvVar       = "TRACKMIX_DEV"
	toolsDirEnvVar          = "TRACKMIX_TOOLS_DIR"
	logLevelEnvVar          = "TRACKMIX_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir:  defaultTempDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Tools: Tools{
			DevToolsDir: defaultDevToolsDir,
			FFprobe:     defaultFFprobeBinary,
			MkvIdentify: defaultMkvmergeBinary,
			Mkvmerge:    defaultMkvmergeBinary,
		},
		Mix: Mix{
			ParallelStages:      defaultParallelStages,
			StageTimeoutSeconds: defaultStageTimeoutSecs,
			ProbeTimeoutSeconds: defaultProbeTimeoutSecs,
			JournalEnabled:      defaultJournalEnabled,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
