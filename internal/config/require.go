package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

// Validate reports the first setting that makes the process unable to start.
func (c Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return missing("JWT_SECRET")
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("%w: unsupported DB_DRIVER %q", ErrInvalidConfig, c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return missing("DATABASE_URL")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidConfig)
	}
	switch c.Mail.Transport {
	case "log":
	case "kafka":
		if len(c.Mail.KafkaBrokers) == 0 {
			return missing("KAFKA_BROKERS")
		}
	case "rabbitmq":
		if c.Mail.RabbitURL == "" {
			return missing("RABBITMQ_URL")
		}
	default:
		return fmt.Errorf("%w: unsupported MAIL_TRANSPORT %q", ErrInvalidConfig, c.Mail.Transport)
	}
	if c.Mail.MaxAttempts < 1 {
		return fmt.Errorf("%w: MAIL_MAX_ATTEMPTS must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func missing(envName string) error {
	return fmt.Errorf("%w: missing required env %s", ErrInvalidConfig, envName)
}
