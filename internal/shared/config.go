package shared

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	DBDriver    string
	DBDSN       string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	IntakeRPS           float64
	IntakeBurst         int
	IntakeWindow        time.Duration
	IntakeCollaborators []string

	Currency      string
	ImportWorkers int
	ImportOrigin  string
}

// Load reads configuration from the environment, optionally layered over the
// file named by CONFIG_FILE.
func Load() Config {
	v := viper.New()
	v.SetDefault("app_env", "prod")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "file:data/rentals.db?_pragma=foreign_keys(1)")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("intake_rps", 2.0)
	v.SetDefault("intake_burst", 10)
	v.SetDefault("intake_window_seconds", 60)
	v.SetDefault("intake_collaborators", "alicia,estanislao")
	v.SetDefault("currency", "USD")
	v.SetDefault("import_workers", 4)
	v.SetDefault("import_origin", "Owner")
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("config file not loaded")
		}
	}

	c := Config{
		AppEnv:              v.GetString("app_env"),
		LogLevel:            v.GetString("log_level"),
		HTTPAddr:            v.GetString("http_addr"),
		MetricsAddr:         v.GetString("metrics_addr"),
		DBDriver:            v.GetString("db_driver"),
		DBDSN:               v.GetString("db_dsn"),
		RedisAddr:           v.GetString("redis_addr"),
		RedisPass:           v.GetString("redis_password"),
		RedisDB:             v.GetInt("redis_db"),
		IntakeRPS:           v.GetFloat64("intake_rps"),
		IntakeBurst:         v.GetInt("intake_burst"),
		IntakeWindow:        time.Duration(v.GetInt("intake_window_seconds")) * time.Second,
		IntakeCollaborators: splitList(v.GetString("intake_collaborators")),
		Currency:            strings.ToUpper(v.GetString("currency")),
		ImportWorkers:       v.GetInt("import_workers"),
		ImportOrigin:        v.GetString("import_origin"),
	}
	if c.ImportWorkers <= 0 {
		c.ImportWorkers = 1
	}
	if len(c.IntakeCollaborators) == 0 {
		log.Warn().Msg("INTAKE_COLLABORATORS is empty; the external intake form is closed")
	}
	return c
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.ToLower(strings.TrimSpace(p)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
