package config

const (
	defaultLogDir          = "~/.local/share/chronosort/logs"
	defaultDateSource      = "modified"
	defaultDepth           = 3
	defaultOnConflict      = "skip"
	defaultMaxDepth        = 100
	defaultDebounceSeconds = 2
	defaultSettleSeconds   = 5
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Organize: Organize{
			DateSource: defaultDateSource,
			Depth:      defaultDepth,
			OnConflict: defaultOnConflict,
			MaxDepth:   defaultMaxDepth,
		},
		Watch: Watch{
			DebounceSeconds: defaultDebounceSeconds,
			SettleSeconds:   defaultSettleSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
