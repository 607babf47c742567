package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/avvvet/charge-services/internal/comm"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUnknownSocket = errors.New("unknown socket")

const DefaultWriteWait = 10 * time.Second

// Sender is the write side of a websocket connection.
type Sender interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client serializes writes; a websocket connection allows one writer at
// a time.
type client struct {
	mu   sync.Mutex
	conn Sender
}

type Ws struct {
	connMap  sync.Map // to keep track of socket connection with socketId
	watchMap sync.Map // socketId -> watched customerId

	WriteWait time.Duration // bound on a single write to a client
}

func NewWs() *Ws {
	return &Ws{WriteWait: DefaultWriteWait}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "watch":
		s.handleWatch(socketId, message)
	case "unwatch":
		s.watchMap.Delete(socketId)
		s.reply(socketId, "unwatch-response", struct{}{})
	default:
		log.Warnf("unknown event received: %s", message.Type)
		s.SendError(socketId, "unknown message type "+message.Type)
	}
}

func (s *Ws) handleWatch(socketId string, msg *comm.WSMessage) {
	var payload comm.WatchRequest
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: invalid watch payload %s", err)
		s.SendError(socketId, "invalid watch payload")
		return
	}

	if !primitive.IsValidObjectID(payload.CustomerID) {
		s.SendError(socketId, "customer_id is not a valid ObjectId")
		return
	}

	s.Watch(socketId, payload.CustomerID)
	log.Infof("socket %s watching customer %s", socketId, payload.CustomerID)
	s.reply(socketId, "watch-response", payload)
}

func (s *Ws) reply(socketId, typ string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal %s: %v", typ, err)
		return
	}
	if err := s.Send(socketId, &comm.WSMessage{Type: typ, Data: data}); err != nil {
		log.Errorf("send %s to %s: %v", typ, socketId, err)
	}
}

func (s *Ws) SendError(socketId, errorMsg string) {
	errorResponse := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}
	if err := s.Send(socketId, errorResponse); err != nil {
		log.Errorf("Failed to send error message to client: %v", err)
	}
}

func (s *Ws) StoreConnection(socketId string, conn Sender) {
	s.connMap.Store(socketId, &client{conn: conn})
}

// Send writes v as JSON to the socket within WriteWait. A failed write
// leaves the connection unusable, so the socket is closed and forgotten.
func (s *Ws) Send(socketId string, v interface{}) error {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return ErrUnknownSocket
	}
	cl := c.(*client)
	cl.mu.Lock()
	defer cl.mu.Unlock()

	err := cl.conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
	if err == nil {
		err = cl.conn.WriteJSON(v)
	}
	if err != nil {
		s.drop(socketId, cl)
		return err
	}
	return nil
}

func (s *Ws) drop(socketId string, cl *client) {
	if s.connMap.CompareAndDelete(socketId, cl) {
		s.watchMap.Delete(socketId)
		log.Warnf("dropping socket %s after failed write", socketId)
	}
	cl.conn.Close()
}

// Watch subscribes the socket to one customer, replacing any previous one.
func (s *Ws) Watch(socketId, customerId string) {
	s.watchMap.Store(socketId, customerId)
}

func (s *Ws) GetWatchers(customerId string) ([]string, bool) {
	var sockets []string
	found := false

	s.watchMap.Range(func(key, value interface{}) bool {
		if value.(string) == customerId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.watchMap.Delete(socketId)
}
