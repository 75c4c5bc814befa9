package config

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	cfgpkg "github.com/alexisbeaulieu97/shelf/internal/config"
	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
	shelferrors "github.com/alexisbeaulieu97/shelf/pkg/errors"
)

const (
	configName = "shelf"
	envPrefix  = "SHELF"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Loader reads shelf.yaml with viper. Lookup order is the explicit path when
// given, otherwise ./shelf.yaml then <home>/shelf.yaml. SHELF_* environment
// variables override file values, e.g. SHELF_AUTH_BASE_URL.
type Loader struct {
	logger ports.Logger
	home   string
}

// NewLoader creates a loader rooted at home, the shelf state directory.
func NewLoader(logger ports.Logger, home string) *Loader {
	return &Loader{logger: logger, home: home}
}

// Load returns the validated configuration and the file it came from, which
// is empty when only defaults and environment variables applied.
func (l *Loader) Load(ctx context.Context, path string) (*cfgpkg.Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", shop.NewError(shop.ErrCodeInternal, "config load cancelled", err, nil)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if l.home != "" {
			v.AddConfigPath(l.home)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfgpkg.Defaults(l.home))

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			l.log(ctx, "config file unreadable", "path", path, "error", err)
			return nil, "", convertError(err, path)
		}
		l.log(ctx, "no config file found, using defaults", "home", l.home)
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg cfgpkg.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, used, shop.NewError(shop.ErrCodeValidation, "config does not match schema", err, map[string]interface{}{"path": used})
	}
	if err := cfgpkg.ValidateConfig(&cfg); err != nil {
		l.log(ctx, "config failed validation", "path", used, "error", err)
		return nil, used, convertError(err, used)
	}

	l.log(ctx, "config loaded", "path", used, "auth_mode", cfg.Auth.Mode, "preferences", cfg.Preferences.Backend)
	return &cfg, used, nil
}

func setDefaults(v *viper.Viper, d cfgpkg.Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("auth.mode", d.Auth.Mode)
	v.SetDefault("auth.base_url", d.Auth.BaseURL)
	v.SetDefault("auth.timeout", d.Auth.Timeout)
	v.SetDefault("auth.latency", d.Auth.Latency)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("preferences.backend", d.Preferences.Backend)
	v.SetDefault("preferences.path", d.Preferences.Path)
	v.SetDefault("preferences.redis.addr", d.Preferences.Redis.Addr)
	v.SetDefault("preferences.redis.password", d.Preferences.Redis.Password)
	v.SetDefault("preferences.redis.db", d.Preferences.Redis.DB)
	v.SetDefault("preferences.redis.key_prefix", d.Preferences.Redis.KeyPrefix)
	v.SetDefault("ui.unicode", d.UI.Unicode)
	v.SetDefault("ui.alt_screen", d.UI.AltScreen)
}

func convertError(err error, path string) error {
	var parseErr viper.ConfigParseError
	if errors.As(err, &parseErr) {
		wrapped := shelferrors.NewParseError(path, extractLine(err), err)
		return shop.NewError(shop.ErrCodeValidation, "invalid config syntax", wrapped, map[string]interface{}{"path": path})
	}
	var valErr *shelferrors.ValidationError
	if errors.As(err, &valErr) {
		return shop.NewError(shop.ErrCodeValidation, valErr.Message, err, map[string]interface{}{
			"path":  path,
			"field": valErr.Field,
		})
	}
	return shop.NewError(shop.ErrCodeInternal, "config load failed", err, map[string]interface{}{"path": path})
}

func extractLine(err error) int {
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

func (l *Loader) log(ctx context.Context, msg string, fields ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(ctx, msg, fields...)
}
