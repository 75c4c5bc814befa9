package config

import "time"

// Config is the full shelf configuration as read from shelf.yaml and
// SHELF_* environment variables.
type Config struct {
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	Auth        AuthConfig        `mapstructure:"auth" yaml:"auth"`
	Catalog     CatalogConfig     `mapstructure:"catalog" yaml:"catalog"`
	Preferences PreferencesConfig `mapstructure:"preferences" yaml:"preferences"`
	UI          UIConfig          `mapstructure:"ui" yaml:"ui"`
}

// LogConfig selects level, encoding and destination of the log.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"log_level"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
	// File receives log output while the terminal UI is running. Empty means
	// stderr, which is only sensible for non-interactive commands.
	File string `mapstructure:"file" yaml:"file"`
}

// AuthConfig picks the authentication backend.
type AuthConfig struct {
	Mode    string        `mapstructure:"mode" yaml:"mode" validate:"oneof=local http"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url" validate:"required_if=Mode http,omitempty,http_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	// Latency is added to every local auth call so spinners and supersession
	// can be observed without a server.
	Latency time.Duration `mapstructure:"latency" yaml:"latency" validate:"gte=0"`
}

// CatalogConfig points at an optional catalog file. Empty uses the built-in
// catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// PreferencesConfig picks where the theme preference is stored.
type PreferencesConfig struct {
	Backend string      `mapstructure:"backend" yaml:"backend" validate:"oneof=file redis"`
	Path    string      `mapstructure:"path" yaml:"path" validate:"required_if=Backend file"`
	Redis   RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig configures the redis preference backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr" validate:"required_if=Enabled true,omitempty,hostname_port"`
	Password  string `mapstructure:"password" yaml:"password"`
	DB        int    `mapstructure:"db" yaml:"db" validate:"gte=0,lte=15"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
	// Enabled is derived from Preferences.Backend before validation.
	Enabled bool `mapstructure:"-" yaml:"-"`
}

// UIConfig holds terminal rendering switches.
type UIConfig struct {
	Unicode   bool `mapstructure:"unicode" yaml:"unicode"`
	AltScreen bool `mapstructure:"alt_screen" yaml:"alt_screen"`
}

// Defaults returns the configuration used when no file or variable
// overrides a value. home is the shelf state directory.
func Defaults(home string) Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   joinHome(home, "shelf.log"),
		},
		Auth: AuthConfig{
			Mode:    "local",
			Timeout: 5 * time.Second,
		},
		Preferences: PreferencesConfig{
			Backend: "file",
			Path:    joinHome(home, "preferences.yaml"),
			Redis: RedisConfig{
				Addr:      "127.0.0.1:6379",
				KeyPrefix: "shelf:pref:",
			},
		},
		UI: UIConfig{
			Unicode:   true,
			AltScreen: true,
		},
	}
}

func joinHome(home, name string) string {
	if home == "" {
		return name
	}
	return home + "/" + name
}
