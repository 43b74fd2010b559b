package service

import (
	"context"
	"encoding/json"
	"time"

	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
	infdom "facegate/internal/services/inference/domain"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTTOptions configures the MQTT receiver
type MQTTOptions struct {
	Broker   string
	Topic    string
	ClientID string
	Username string
	Password string
	QoS      byte
	Wait     time.Duration
}

// MQTTReceiver publishes verdicts to a topic the receiver device subscribes to
type MQTTReceiver struct {
	client mqtt.Client
	opts   MQTTOptions
}

// NewMQTTReceiver starts connecting in the background; publishes fail until the broker is reachable
func NewMQTTReceiver(o MQTTOptions) *MQTTReceiver {
	if o.ClientID == "" {
		o.ClientID = "facegate-" + uuid.New().String()
	}
	if o.Wait <= 0 {
		o.Wait = 3 * time.Second
	}
	log := logger.Named("notify.mqtt")

	co := mqtt.NewClientOptions().AddBroker(o.Broker).SetClientID(o.ClientID)
	co.SetKeepAlive(30 * time.Second)
	co.SetPingTimeout(5 * time.Second)
	co.SetConnectTimeout(10 * time.Second)
	co.SetAutoReconnect(true)
	co.SetConnectRetry(true)
	co.SetConnectRetryInterval(5 * time.Second)
	if o.Username != "" {
		co.SetUsername(o.Username)
		co.SetPassword(o.Password)
	}
	co.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", o.Broker).Str("topic", o.Topic).Msg("connected to MQTT")
	}
	co.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", o.Broker).Msg("MQTT connection lost")
	}
	c := mqtt.NewClient(co)
	c.Connect()
	return &MQTTReceiver{client: c, opts: o}
}

// newMQTTReceiverWithClient wires a prebuilt client; tests use it with a fake
func newMQTTReceiverWithClient(c mqtt.Client, o MQTTOptions) *MQTTReceiver {
	if o.Wait <= 0 {
		o.Wait = 3 * time.Second
	}
	return &MQTTReceiver{client: c, opts: o}
}

// Name identifies the sink in logs
func (r *MQTTReceiver) Name() string { return "receiver_mqtt" }

// Deliver publishes the verdict JSON and waits up to the configured time for the broker
func (r *MQTTReceiver) Deliver(_ context.Context, v infdom.Verdict) error {
	if !r.client.IsConnectionOpen() {
		return perr.Unavailablef("receiver: MQTT not connected to %s", r.opts.Broker)
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "receiver: encode verdict")
	}
	tok := r.client.Publish(r.opts.Topic, r.opts.QoS, false, payload)
	if !tok.WaitTimeout(r.opts.Wait) {
		return perr.Unavailablef("receiver: MQTT publish timed out after %s", r.opts.Wait)
	}
	if err := tok.Error(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "receiver: MQTT publish")
	}
	return nil
}

// Close disconnects from the broker
func (r *MQTTReceiver) Close() { r.client.Disconnect(250) }
