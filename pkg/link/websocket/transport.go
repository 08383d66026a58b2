// Package websocket carries the board link over websocket binary
// frames, relayed between boards by a Bridge.
package websocket

import (
	"context"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/link"
)

// Transport implements link.Transport by dialing a Bridge.
// The connection is re-established after failures.
type Transport struct {
	URL           string
	Origin        string
	RetryInterval time.Duration

	inbox  *link.Buffer
	outbox *link.Buffer
}

// NewTransport creates a Transport dialing url, e.g.
// ws://host:port/link/CHANNEL.
func NewTransport(url string, size int) *Transport {
	return &Transport{
		URL:           url,
		Origin:        "http://localhost/",
		RetryInterval: time.Second,
		inbox:         link.NewBuffer(size),
		outbox:        link.NewBuffer(size),
	}
}

// TryReceive implements link.Transport.
func (t *Transport) TryReceive() (byte, bool) {
	return t.inbox.TryReceive()
}

// Send implements link.Transport.
func (t *Transport) Send(b byte) error {
	if !t.outbox.Put(b) {
		return link.ErrOverrun
	}
	return nil
}

// Drops implements link.DropCounter.
func (t *Transport) Drops() uint64 {
	return t.inbox.Drops() + t.outbox.Drops()
}

// Run implements Runnable.
func (t *Transport) Run(ctx context.Context) error {
	for {
		conn, err := websocket.Dial(t.URL, "", t.Origin)
		if err == nil {
			glog.Infof("link connected to %s", t.URL)
			err = t.serve(ctx, conn)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		glog.Warningf("link %s error: %v", t.URL, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.RetryInterval):
		}
	}
}

func (t *Transport) serve(ctx context.Context, conn *websocket.Conn) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			select {
			case <-subCtx.Done():
				return
			case b := <-t.outbox.C():
				if err := websocket.Message.Send(conn, []byte{b}); err != nil {
					glog.V(2).Infof("link send error: %v", err)
					conn.Close()
					return
				}
			}
		}
	}()
	return fx.RunWithContextCloser(ctx, conn, func() error {
		for {
			var frame []byte
			if err := websocket.Message.Receive(conn, &frame); err != nil {
				return err
			}
			for _, b := range frame {
				t.inbox.Put(b)
			}
		}
	})
}
