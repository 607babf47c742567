package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avvvet/charge-services/internal/comm"
	"github.com/avvvet/charge-services/internal/ledgersvc/service"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn          *nats.Conn
	LedgerService *service.LedgerService
}

func NewBroker(nc *nats.Conn, ledgerService *service.LedgerService) *Broker {
	return &Broker{
		Conn:          nc,
		LedgerService: ledgerService,
	}
}

// consume charge events; one member of queueGroup gets each event
func (b *Broker) QueueSubscribe(topic, queueGroup string) (*nats.Subscription, error) {
	sub, err := b.Conn.QueueSubscribe(topic, queueGroup, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessage(msgNats *nats.Msg) {
	b.HandleEvent(msgNats.Data)
}

// HandleEvent records one raw charge event and reports whether a new
// ledger row was written.
func (b *Broker) HandleEvent(data []byte) bool {
	ev := comm.ChargeEvent{}
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Errorf("Error decoding charge event: %s", err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ok, err := b.LedgerService.Record(ctx, ev)
	if err != nil {
		log.Errorf("Error [LedgerService.Record] event %s: %s", ev.ID, err)
		return false
	}
	if ok {
		log.Infof("ledger: recorded %s for charge %s", ev.Type, ev.ChargeID)
	}
	return ok
}
