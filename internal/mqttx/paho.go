package mqttx

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// disconnectQuiesce is how long the paho client may spend flushing in-flight
// work on disconnect, in milliseconds.
const disconnectQuiesce = 250

// PahoPublisher publishes over a real MQTT connection. Each Publish call
// connects, sends one QoS 1 message, and disconnects, mirroring the
// per-request lifecycle of the rest of the server: no broker connection is
// held across requests.
type PahoPublisher struct {
	brokerURL      string
	username       string
	password       string
	clientIDPrefix string
	connectTimeout time.Duration
}

// NewPahoPublisher builds a publisher for the broker at host:port.
func NewPahoPublisher(host string, port int, username, password string, connectTimeout time.Duration) *PahoPublisher {
	return &PahoPublisher{
		brokerURL:      fmt.Sprintf("tcp://%s:%d", host, port),
		username:       username,
		password:       password,
		clientIDPrefix: "cooktrack-server",
		connectTimeout: connectTimeout,
	}
}

func (p *PahoPublisher) Publish(ctx context.Context, topic string, payload []byte, retain bool) error {
	opts := mqtt.NewClientOptions().
		AddBroker(p.brokerURL).
		SetClientID(p.clientIDPrefix + "-" + uuid.NewString()[:8]).
		SetUsername(p.username).
		SetPassword(p.password).
		SetConnectTimeout(p.connectTimeout).
		SetAutoReconnect(false)

	client := mqtt.NewClient(opts)
	if err := waitToken(ctx, client.Connect()); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer client.Disconnect(disconnectQuiesce)

	if err := waitToken(ctx, client.Publish(topic, QoSAtLeastOnce, retain, payload)); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

// waitToken blocks until the paho token completes or the context is done.
func waitToken(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
