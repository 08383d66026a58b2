package websocket

import (
	"math/rand"
	"net/http"
	"strings"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Bridge relays link frames between boards connected to the same
// channel, the channel being the request path. It can drop bytes
// to emulate a lossy infrared link.
type Bridge struct {
	// LossRate is the probability a relayed byte is dropped.
	LossRate float64

	rand     *rand.Rand
	channels map[string]map[*websocket.Conn]bool
	lock     sync.Mutex
}

// NewBridge creates a Bridge with a deterministic loss sequence.
func NewBridge(lossRate float64, seed int64) *Bridge {
	return &Bridge{
		LossRate: lossRate,
		rand:     rand.New(rand.NewSource(seed)),
		channels: make(map[string]map[*websocket.Conn]bool),
	}
}

// Handler returns the http.Handler accepting board connections.
func (b *Bridge) Handler() http.Handler {
	return websocket.Handler(b.serve)
}

// Peers returns the number of boards connected on a channel.
func (b *Bridge) Peers(channel string) int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.channels[channel])
}

func (b *Bridge) serve(conn *websocket.Conn) {
	channel := strings.Trim(conn.Request().URL.Path, "/")
	b.lock.Lock()
	conns := b.channels[channel]
	if conns == nil {
		conns = make(map[*websocket.Conn]bool)
		b.channels[channel] = conns
	}
	conns[conn] = true
	b.lock.Unlock()
	glog.Infof("board joined %q from %s", channel, conn.Request().RemoteAddr)

	defer func() {
		b.lock.Lock()
		delete(conns, conn)
		if len(conns) == 0 {
			delete(b.channels, channel)
		}
		b.lock.Unlock()
		conn.Close()
		glog.Infof("board left %q", channel)
	}()

	for {
		var frame []byte
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			return
		}
		b.relay(channel, conn, b.filter(frame))
	}
}

func (b *Bridge) filter(frame []byte) []byte {
	if b.LossRate <= 0 {
		return frame
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	kept := frame[:0]
	for _, v := range frame {
		if b.rand.Float64() >= b.LossRate {
			kept = append(kept, v)
		}
	}
	return kept
}

func (b *Bridge) relay(channel string, from *websocket.Conn, frame []byte) {
	if len(frame) == 0 {
		return
	}
	b.lock.Lock()
	var peers []*websocket.Conn
	for conn := range b.channels[channel] {
		if conn != from {
			peers = append(peers, conn)
		}
	}
	b.lock.Unlock()
	for _, conn := range peers {
		if err := websocket.Message.Send(conn, frame); err != nil {
			glog.V(2).Infof("relay on %q error: %v", channel, err)
		}
	}
}
