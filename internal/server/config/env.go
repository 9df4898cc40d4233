package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config fields from environment variables. The variable
// names match the original deployment's dotenv surface (DB_HOST, DB_PORT,
// MQTT_HOST, ...); variables that are unset leave the current values alone.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
