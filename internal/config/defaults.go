package config

const (
	defaultConfigPath    = "~/.config/clipmeta/config.toml"
	projectConfigName    = "clipmeta.toml"
	lockFileName         = "clipmeta.lock"
	historyFileName      = "history.db"
	defaultStateDir      = "~/.local/share/clipmeta"
	defaultLogDir        = "~/.local/share/clipmeta/logs"
	defaultScanPattern   = "C*M01.XML"
	defaultScanMarker    = "M01"
	defaultOutputSuffix  = ".MP4.xmp"
	defaultOutputShape   = "bare"
	defaultFileMode      = 0o644
	defaultDebounceMS    = 500
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Scan: Scan{
			Pattern:      defaultScanPattern,
			Marker:       defaultScanMarker,
			OutputSuffix: defaultOutputSuffix,
		},
		Output: Output{
			Shape:    defaultOutputShape,
			FileMode: defaultFileMode,
		},
		History: History{
			Enabled: true,
		},
		Watch: Watch{
			DebounceMS: defaultDebounceMS,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
