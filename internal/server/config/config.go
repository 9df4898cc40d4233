// Package config handles configuration for the cooktrack server: defaults,
// optional JSON file overlay, environment variables, and command-line flags,
// applied in that order.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the cooktrack server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DBHost..DBName: PostgreSQL connection settings (pgx).
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not use
//     the development default in production.
//   - AccessTokenValidityDuration: access token lifetime.
//   - MQTTHost..MQTTPassword: broker connection settings.
//   - ControlTopic: retained topic carrying program phases to the device.
//   - WifiTopic: non-retained topic carrying wifi credentials.
type Config struct {
	EndpointAddrHTTP string `env:"SERVER_ADDRESS"`

	DBHost     string `env:"DB_HOST"`
	DBPort     int    `env:"DB_PORT"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`

	SecretKey                   string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration time.Duration `env:"ACCESS_TOKEN_TTL"`

	MQTTHost           string        `env:"MQTT_HOST"`
	MQTTPort           int           `env:"MQTT_PORT"`
	MQTTUsername       string        `env:"MQTT_USERNAME"`
	MQTTPassword       string        `env:"MQTT_PASSWORD"`
	MQTTConnectTimeout time.Duration `env:"MQTT_CONNECT_TIMEOUT"`

	ControlTopic string `env:"MQTT_CMD_TOPIC"`
	WifiTopic    string `env:"MQTT_WIFI_TOPIC"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DBHost = "localhost"
	c.DBPort = 5432
	c.DBUser = "iot_user"
	c.DBPassword = "pannenkoek_app"
	c.DBName = "pancake_science_db"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.MQTTHost = "localhost"
	c.MQTTPort = 1883
	c.MQTTUsername = ""
	c.MQTTPassword = ""
	c.MQTTConnectTimeout = 10 * time.Second
	c.ControlTopic = "cooktrack/cmd"
	c.WifiTopic = "cooktrack/wifi"
}

// DatabaseDSN assembles a pgx DSN from the discrete DB settings.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
