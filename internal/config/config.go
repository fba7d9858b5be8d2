package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for a stellium invocation.
// Values are populated from .stellium.yaml, STELLIUM_* env vars, and CLI flags.
type Config struct {
	SwetestPath   string `mapstructure:"swetest_path"`
	EphePath      string `mapstructure:"ephe_path"`
	ProfilesPath  string `mapstructure:"profiles_path"`
	CachePath     string `mapstructure:"cache_path"`
	TelemetryPath string `mapstructure:"telemetry_path"`
	HouseSystem   string `mapstructure:"house_system"`
	Extended      bool   `mapstructure:"extended"`
	Verbose       bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. Empty ProfilesPath
// means the profile store's default location under the home directory; empty
// CachePath and TelemetryPath disable those features.
func Load() (Config, error) {
	viper.SetDefault("swetest_path", "swetest")
	viper.SetDefault("ephe_path", "")
	viper.SetDefault("profiles_path", "")
	viper.SetDefault("cache_path", "")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("house_system", "placidus")
	viper.SetDefault("extended", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
