package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                   string
	Port                  string
	DatabaseURL           string
	RedisURL              string
	SessionSecret         string
	FrontendURLEndsWith   string
	AdminEmail            string
	AdminPassword         string
	OverdueThresholdHours float64
	ConsistencyCheckMins  int
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	threshold := viper.GetFloat64("OVERDUE_THRESHOLD_HOURS")
	if threshold <= 0 {
		threshold = 24
	}
	checkMins := viper.GetInt("CONSISTENCY_CHECK_MINS")
	if checkMins <= 0 {
		checkMins = 15
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@admin.com"
	}

	return &Config{
		Env:                   env,
		Port:                  port,
		DatabaseURL:           dbURL,
		RedisURL:              viper.GetString("REDIS_URL"),
		SessionSecret:         viper.GetString("SESSION_SECRET"),
		FrontendURLEndsWith:   viper.GetString("FRONTEND_URL_ENDS_WITH"),
		AdminEmail:            adminEmail,
		AdminPassword:         viper.GetString("ADMIN_PASSWORD"),
		OverdueThresholdHours: threshold,
		ConsistencyCheckMins:  checkMins,
	}, nil
}
