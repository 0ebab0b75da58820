package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config concentra toda la configuración del servicio.
// Se carga de env vars (prefijo SAFEMED_) y opcionalmente de un yaml.
type Config struct {
	Server ServerConfig `mapstructure:"server"`

	Database DatabaseConfig `mapstructure:"database"`

	IDP IDPConfig `mapstructure:"idp"`

	Registry RegistryConfig `mapstructure:"registry"`

	Log LogConfig `mapstructure:"log"`

	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	// DSN vacío => repos in-memory (modo dev)
	DSN string `mapstructure:"dsn"`
}

type IDPConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`

	// Si viene, los tokens se validan localmente (HS256) sin llamar al idp.
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RegistryConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load lee la config. path puede ser "" (sólo env + defaults).
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.enabled", true)

	v.SetEnvPrefix("SAFEMED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
