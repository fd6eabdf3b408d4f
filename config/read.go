package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/constants"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.rate_limit.max", 120)
	v.SetDefault("server.rate_limit.expiration_seconds", 60)
	v.SetDefault("server.public_booking_limit.max", 5)
	v.SetDefault("server.public_booking_limit.expiration_seconds", 600)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "clinicdesk")
	v.SetDefault("mongo.timeout_seconds", 10)
	v.SetDefault("nats.url", "")

	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.issuer", "clinicdesk")
	v.SetDefault("authentication.paseto.audience", "clinicdesk-admin")
	v.SetDefault("authentication.session_ttl_minutes", 24*60)
	v.SetDefault("authentication.cookie.name", "admin-token")
	v.SetDefault("authentication.max_login_attempts", 5)
	v.SetDefault("authentication.lock_minutes", 15)
	v.SetDefault("authentication.generated_password_length", 12)

	v.SetDefault("authorization.casbin_model_path", "config/casbin_model.conf")
	v.SetDefault("authorization.enable_audit", true)

	v.SetDefault("clinic.timezone", "UTC")
	v.SetDefault("clinic.phone_region", "EG")

	v.SetDefault("observability.service_name", constants.ServiceName)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output.stdout", true)
}

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// CLINICDESK_MONGO_URI overrides mongo.uri
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
		// Container deployments configure everything through the environment.
		if os.Getenv(constants.EnvPrefix+"_MONGO_URI") == "" {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}
