package broker

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/avvvet/charge-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn        *nats.Conn
	GetWatchers func(string) ([]string, bool)
	Send        func(string, interface{}) error
}

func NewBroker(conn *nats.Conn, fncGetWatchers func(string) ([]string, bool), fncSend func(string, interface{}) error) *Broker {
	return &Broker{
		Conn:        conn,
		GetWatchers: fncGetWatchers,
		Send:        fncSend,
	}
}

// Subscribe without a queue group: every feed instance needs every event
// since watchers are spread across instances.
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessages(msgNats *nats.Msg) {
	b.Dispatch(msgNats.Data)
}

// Dispatch forwards a raw charge event to the sockets watching its
// customer and returns how many received it. Sockets are written in
// parallel so a slow client only delays itself; Dispatch returns once
// every write finished, which keeps per-socket event order.
func (b *Broker) Dispatch(data []byte) int {
	ev := comm.ChargeEvent{}
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Errorf("Error decoding charge event: %s", err)
		return 0
	}

	switch ev.Type {
	case comm.EventChargeCreated, comm.EventChargeRefunded:
	default:
		log.Errorf("Unknown charge event %q", ev.Type)
		return 0
	}

	sockets, ok := b.GetWatchers(ev.CustomerID)
	if !ok {
		return 0
	}

	message := &comm.WSMessage{
		Type: ev.Type,
		Data: data,
	}

	var (
		wg   sync.WaitGroup
		sent atomic.Int32
	)
	for _, socketId := range sockets {
		wg.Add(1)
		go func(socketId string) {
			defer wg.Done()
			if err := b.Send(socketId, message); err != nil {
				log.Warnf("send %s to socket %s: %v", ev.Type, socketId, err)
				return
			}
			sent.Add(1)
		}(socketId)
	}
	wg.Wait()

	return int(sent.Load())
}
