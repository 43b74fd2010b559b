package module

import (
	"time"

	"facegate/internal/platform/config"
)

// Receiver delivery modes
const (
	ModeHTTP = "http"
	ModeMQTT = "mqtt"
	ModeBoth = "both"
)

// Options controls the receiver device notifier
type Options struct {
	Enabled bool
	Mode    string
	URL     string
	Timeout time.Duration

	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTQoS      int
}

// FromConfig reads RECEIVER_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("RECEIVER_")
	return Options{
		Enabled:      rc.MayBool("ENABLED", true),
		Mode:         rc.MayEnum("MODE", ModeHTTP, ModeHTTP, ModeMQTT, ModeBoth),
		URL:          rc.MayString("URL", "http://192.168.1.38:8081/result"),
		Timeout:      rc.MayDuration("TIMEOUT", 3*time.Second),
		MQTTBroker:   rc.MayString("MQTT_BROKER", "tcp://127.0.0.1:1883"),
		MQTTTopic:    rc.MayString("MQTT_TOPIC", "facegate/verdict"),
		MQTTClientID: rc.MayString("MQTT_CLIENT_ID", ""),
		MQTTUsername: rc.MayString("MQTT_USERNAME", ""),
		MQTTPassword: rc.MaySecret("MQTT_PASSWORD"),
		MQTTQoS:      rc.MayInt("MQTT_QOS", 0),
	}
}
