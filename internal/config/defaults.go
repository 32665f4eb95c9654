package config

const (
	defaultConfigPath           = "~/.config/dynastysync/config.toml"
	projectConfigName           = "dynastysync.toml"
	databaseFileName            = "dynastysync.db"
	watchLockFileName           = "dynastysync-watch.lock"
	defaultDataDir              = "~/.local/share/dynastysync"
	defaultLogDir               = "~/.local/share/dynastysync/logs"
	defaultSidecarBinary        = "dynasty-sidecar"
	defaultSidecarTimeout       = 60
	defaultSidecarUpdateTimeout = 300
	defaultAutoConfirmSeconds   = 10
	defaultWatchDebounceMS      = 2000
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30

	// SidecarEnv overrides sidecar.binary when set.
	SidecarEnv = "DYNASTYSYNC_SIDECAR"

	// CommitModeSequential awaits each create in order and keeps earlier writes on failure.
	CommitModeSequential = "sequential"
	// CommitModeTransactional wraps the whole commit in one store transaction.
	CommitModeTransactional = "transactional"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Sidecar: Sidecar{
			Binary:               defaultSidecarBinary,
			TimeoutSeconds:       defaultSidecarTimeout,
			UpdateTimeoutSeconds: defaultSidecarUpdateTimeout,
		},
		Sync: Sync{
			AutoConfirmSeconds: defaultAutoConfirmSeconds,
			WatchDebounceMS:    defaultWatchDebounceMS,
			CommitMode:         CommitModeSequential,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
