package mqtt

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/ghosthunt/pkg/link"
)

// Transport implements link.Transport over MQTT. Every board
// publishes to Channel/BoardID and listens on Channel/+, ignoring
// its own topic.
type Transport struct {
	Queue   *Queue
	Channel string
	BoardID string

	inbox *link.Buffer
}

// NewTransport creates a Transport.
func NewTransport(q *Queue, channel, boardID string, size int) *Transport {
	return &Transport{
		Queue:   q,
		Channel: channel,
		BoardID: boardID,
		inbox:   link.NewBuffer(size),
	}
}

func (t *Transport) ownTopic() string {
	return t.Channel + "/" + t.BoardID
}

// TryReceive implements link.Transport.
func (t *Transport) TryReceive() (byte, bool) {
	return t.inbox.TryReceive()
}

// Send implements link.Transport. The publish token is not waited.
func (t *Transport) Send(b byte) error {
	if !t.Queue.Connected() {
		return link.ErrNotReady
	}
	t.Queue.Pub(t.ownTopic(), []byte{b})
	return nil
}

// Drops implements link.DropCounter.
func (t *Transport) Drops() uint64 {
	return t.inbox.Drops()
}

// Run implements Runnable.
func (t *Transport) Run(ctx context.Context) error {
	sub := t.Queue.Sub(t.Channel+"/+", t.handleMsg)
	defer sub.Close()
	if err := t.Queue.ConnectAndRetry(ctx, time.Second); err != nil {
		return err
	}
	defer t.Queue.Close()
	<-ctx.Done()
	return ctx.Err()
}

func (t *Transport) handleMsg(topic string, payload []byte) {
	if topic == t.ownTopic() {
		return
	}
	for _, b := range payload {
		if !t.inbox.Put(b) {
			glog.V(3).Infof("link overrun from %s, byte %d dropped", topic, b)
		}
	}
}
