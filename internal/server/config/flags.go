package config

import (
	"flag"
	"os"

	"github.com/pancakescience/cooktrack/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line
// flags.
//
// Supported flags:
//
//	-a string             HTTP bind address (e.g., ":8080")
//	-s string             JWT HMAC secret key
//	-db-host string       PostgreSQL host
//	-db-port int          PostgreSQL port
//	-db-user string       PostgreSQL user
//	-db-password string   PostgreSQL password
//	-db-name string       PostgreSQL database name
//	-mqtt-host string     MQTT broker host
//	-mqtt-port int        MQTT broker port
//	-mqtt-user string     MQTT username
//	-mqtt-password string MQTT password
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-s",
		"-db-host", "-db-port", "-db-user", "-db-password", "-db-name",
		"-mqtt-host", "-mqtt-port", "-mqtt-user", "-mqtt-password",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	fs.StringVar(&config.DBHost, "db-host", config.DBHost, "database host")
	fs.IntVar(&config.DBPort, "db-port", config.DBPort, "database port")
	fs.StringVar(&config.DBUser, "db-user", config.DBUser, "database user")
	fs.StringVar(&config.DBPassword, "db-password", config.DBPassword, "database password")
	fs.StringVar(&config.DBName, "db-name", config.DBName, "database name")

	fs.StringVar(&config.MQTTHost, "mqtt-host", config.MQTTHost, "MQTT broker host")
	fs.IntVar(&config.MQTTPort, "mqtt-port", config.MQTTPort, "MQTT broker port")
	fs.StringVar(&config.MQTTUsername, "mqtt-user", config.MQTTUsername, "MQTT username")
	fs.StringVar(&config.MQTTPassword, "mqtt-password", config.MQTTPassword, "MQTT password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
