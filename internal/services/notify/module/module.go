// Package module wires the notification fan-out and the receiver sinks
package module

import (
	"time"

	modkit "facegate/internal/modkit"
	"facegate/internal/modkit/httpkit"
	"facegate/internal/services/notify/domain"
	"facegate/internal/services/notify/service"
)

// Ports are what the module offers
type Ports struct {
	Fanout *service.Fanout
}

// Module defines the notify module; it has no routes
type Module struct {
	opts   Options
	fanout *service.Fanout
	mqtt   *service.MQTTReceiver
}

// New builds the receiver sinks from RECEIVER_* config and fans out to them plus extra.
// extra carries sinks owned by other modules, e.g. the alert dispatcher
func New(deps modkit.Deps, overrides Options, extra ...domain.Sink) *Module {
	o := FromConfig(deps.Cfg)
	if overrides.Mode != "" {
		o.Mode = overrides.Mode
	}
	if overrides.URL != "" {
		o.URL = overrides.URL
	}
	if overrides.Timeout != 0 {
		o.Timeout = overrides.Timeout
	}

	m := &Module{opts: o}
	var sinks []domain.Sink
	if o.Enabled {
		if o.Mode == ModeHTTP || o.Mode == ModeBoth {
			sinks = append(sinks, service.NewHTTPReceiver(o.URL, o.Timeout))
		}
		if o.Mode == ModeMQTT || o.Mode == ModeBoth {
			m.mqtt = service.NewMQTTReceiver(service.MQTTOptions{
				Broker:   o.MQTTBroker,
				Topic:    o.MQTTTopic,
				ClientID: o.MQTTClientID,
				Username: o.MQTTUsername,
				Password: o.MQTTPassword,
				QoS:      byte(min(max(o.MQTTQoS, 0), 2)),
				Wait:     o.Timeout,
			})
			sinks = append(sinks, m.mqtt)
		}
	}
	sinks = append(sinks, extra...)
	m.fanout = service.NewFanout(sinks...)
	deps.Log.Info().Bool("receiver", o.Enabled).Str("mode", o.Mode).Strs("sinks", m.fanout.Sinks()).Msg("notify fan-out ready")
	return m
}

// Fanout returns the verdict publisher
func (m *Module) Fanout() *service.Fanout { return m.fanout }

// ReceiverEnabled reports whether verdicts go to the device
func (m *Module) ReceiverEnabled() bool { return m.opts.Enabled }

// Close stops the fan-out, waits briefly for in-flight deliveries and disconnects MQTT
func (m *Module) Close(wait time.Duration) {
	m.fanout.Close(wait)
	if m.mqtt != nil {
		m.mqtt.Close()
	}
}

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Fanout: m.fanout} }

// Name returns the module name
func (m *Module) Name() string { return "notify" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
