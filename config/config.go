package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config Application config definition.
type Config struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// LoadConfig reads config.yaml from dir, with GOEAV_* environment overrides.
func LoadConfig(dir string) Config {
	cfg := Config{}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("GOEAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("dsn")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalln(err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalln(err)
	}

	return cfg
}

// ValidateConfig ValidateConfig.
func ValidateConfig(config Config) {
	if config.DSN == "" {
		log.Fatalln("DSN not provided")
	}
}
