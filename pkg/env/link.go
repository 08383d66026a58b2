package env

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/link"
	"github.com/robotalks/ghosthunt/pkg/link/mqtt"
	"github.com/robotalks/ghosthunt/pkg/link/websocket"
	"github.com/robotalks/ghosthunt/pkg/status"
)

// DefaultChannel is the MQTT channel when not specified in link URL.
const DefaultChannel = "ir"

// ResolveBoardID returns the configured board id, or the machine id.
func (c *Config) ResolveBoardID() string {
	if c.BoardID != "" {
		return c.BoardID
	}
	id, err := machineid.ProtectedID("ghosthunt")
	if err != nil {
		glog.Warningf("machine id: %v", err)
		host, _ := os.Hostname()
		id = host
	}
	c.BoardID = id
	return id
}

// OpenLink creates the link transport from LinkURL. Transports
// needing background work implement Runnable and are run by the
// session loop. listen:// blocks until the peer connects.
func (c *Config) OpenLink(ctx context.Context) (link.Transport, error) {
	u, err := url.Parse(c.LinkURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %v", err)
	}
	size := c.BufferSize
	if size <= 0 {
		size = link.DefaultBufferSize
	}
	switch u.Scheme {
	case "mem", "":
		ep, _ := link.Pair(size)
		return ep, nil
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return nil, err
		}
		return link.NewStream(conn, size), nil
	case "listen":
		conn, err := acceptOne(ctx, u.Host)
		if err != nil {
			return nil, err
		}
		return link.NewStream(conn, size), nil
	case "file":
		f, err := os.OpenFile(u.Path, os.O_RDWR, 0)
		if err != nil {
			return nil, err
		}
		return link.NewStream(f, size), nil
	case "mqtt":
		channel := u.Query().Get("channel")
		if channel == "" {
			channel = DefaultChannel
		}
		q, err := mqtt.NewQueueFromURL(c.LinkURL)
		if err != nil {
			return nil, err
		}
		return mqtt.NewTransport(q, channel, c.ResolveBoardID(), size), nil
	case "ws", "wss":
		return websocket.NewTransport(c.LinkURL, size), nil
	default:
		return nil, fmt.Errorf("unknown link URL scheme: %q", u.Scheme)
	}
}

// MustOpenLink opens the link and fails on error.
func (c *Config) MustOpenLink(ctx context.Context) link.Transport {
	l, err := c.OpenLink(ctx)
	if err != nil {
		log.Fatalln(err)
	}
	return l
}

func acceptOne(ctx context.Context, addr string) (net.Conn, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	glog.Infof("waiting for peer on %s", ln.Addr())
	var conn net.Conn
	err = fx.RunWithContextCloser(ctx, ln, func() (err error) {
		conn, err = ln.Accept()
		return
	})
	if err != nil {
		return nil, err
	}
	glog.Infof("peer connected from %s", conn.RemoteAddr())
	return conn, nil
}

// DefaultMonitorURL is the broker watched for status when
// StatusURL is not set.
const DefaultMonitorURL = "mqtt://localhost:1883/ghosthunt/"

// MonitorURL returns the broker to watch status on.
func (c *Config) MonitorURL() string {
	if c.StatusURL != "" {
		return c.StatusURL
	}
	return DefaultMonitorURL
}

// StatusPublisher creates the status publisher for a session,
// or nil if status is not configured. An MQTT link shares its
// broker connection when no StatusURL is set.
func (c *Config) StatusPublisher(s *game.Session, l link.Transport) (*status.Publisher, error) {
	var sink *status.MQTTSink
	switch {
	case c.StatusURL != "":
		q, err := mqtt.NewQueueFromURL(c.StatusURL)
		if err != nil {
			return nil, err
		}
		sink = &status.MQTTSink{Queue: q, Connect: true}
	default:
		t, ok := l.(*mqtt.Transport)
		if !ok {
			return nil, nil
		}
		sink = &status.MQTTSink{Queue: t.Queue}
	}
	return &status.Publisher{
		BoardID: c.ResolveBoardID(),
		Session: s,
		Link:    l,
		Sink:    sink,
	}, nil
}
