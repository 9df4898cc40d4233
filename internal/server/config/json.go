package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pancakescience/cooktrack/internal/flagx"
	"github.com/pancakescience/cooktrack/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DBHost                      string         `json:"db_host"`
	DBPort                      int            `json:"db_port"`
	DBUser                      string         `json:"db_user"`
	DBPassword                  string         `json:"db_password"`
	DBName                      string         `json:"db_name"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	MQTTHost                    string         `json:"mqtt_host"`
	MQTTPort                    int            `json:"mqtt_port"`
	MQTTUsername                string         `json:"mqtt_username"`
	MQTTPassword                string         `json:"mqtt_password"`
	MQTTConnectTimeout          timex.Duration `json:"mqtt_connect_timeout"`
	ControlTopic                string         `json:"control_topic"`
	WifiTopic                   string         `json:"wifi_topic"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable or invalid
// file panics, matching the flag-parsing behavior.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DBHost = c.DBHost
	config.DBPort = c.DBPort
	config.DBUser = c.DBUser
	config.DBPassword = c.DBPassword
	config.DBName = c.DBName
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.MQTTHost = c.MQTTHost
	config.MQTTPort = c.MQTTPort
	config.MQTTUsername = c.MQTTUsername
	config.MQTTPassword = c.MQTTPassword
	config.MQTTConnectTimeout = time.Duration(c.MQTTConnectTimeout.Duration)
	config.ControlTopic = c.ControlTopic
	config.WifiTopic = c.WifiTopic
}
