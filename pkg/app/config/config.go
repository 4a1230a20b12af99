package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is the full deployment configuration, read from STOREFRONT_*
// environment variables.
type Config struct {
	HTTPAddress string `envconfig:"HTTP_ADDRESS" default:":8080"`
	// DatabaseDSN must include parseTime=true (DATETIME scanning) and
	// multiStatements=true (multi-table migration files).
	DatabaseDSN string `envconfig:"DATABASE_DSN" required:"true"`

	MercadoPagoBaseURL string `envconfig:"MERCADOPAGO_BASE_URL" default:"https://api.mercadopago.com"`
	MercadoPagoToken   string `envconfig:"MERCADOPAGO_ACCESS_TOKEN" required:"true"`

	JWTSecretKey string        `envconfig:"JWT_SECRET_KEY" required:"true"`
	JWTTTL       time.Duration `envconfig:"JWT_TTL" default:"1h"`

	MailServer   string `envconfig:"MAIL_SERVER" default:"smtp.gmail.com"`
	MailPort     int    `envconfig:"MAIL_PORT" default:"587"`
	MailUsername string `envconfig:"MAIL_USERNAME"`
	MailPassword string `envconfig:"MAIL_PASSWORD"`
	MailSender   string `envconfig:"MAIL_DEFAULT_SENDER"`
}

func Load() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("storefront", c); err != nil {
		return nil, errors.Wrap(err, "parse environment configuration")
	}
	if c.MailSender == "" {
		c.MailSender = c.MailUsername
	}
	return c, nil
}
