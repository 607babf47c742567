package broker

import (
	"encoding/json"
	"fmt"

	"github.com/avvvet/charge-services/internal/comm"
	"github.com/nats-io/nats.go"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// Broker publishes charge events for the ledger and feed services.
type Broker struct {
	Conn    Publisher
	Subject string
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{
		Conn:    nc,
		Subject: comm.ChargeEventsSubject,
	}
}

func (b *Broker) PublishChargeEvent(ev comm.ChargeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal charge event: %w", err)
	}

	if err := b.Conn.Publish(b.Subject, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", b.Subject, err)
	}
	return nil
}
