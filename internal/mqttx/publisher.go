// Package mqttx wraps the MQTT broker behind a one-method publish
// capability, so the services that build control messages never depend on
// the transport directly and tests can substitute an in-memory fake.
package mqttx

import "context"

// QoSAtLeastOnce is the delivery level used for every outbound message.
const QoSAtLeastOnce byte = 1

// Publisher sends one message to the broker. Implementations make a single
// attempt; retry policy is deliberately not part of this capability.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte, retain bool) error
}
