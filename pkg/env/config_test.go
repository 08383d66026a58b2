package env

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ghosthunt/pkg/codec"
	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/hal"
	"github.com/robotalks/ghosthunt/pkg/link"
	"github.com/robotalks/ghosthunt/pkg/link/mqtt"
	"github.com/robotalks/ghosthunt/pkg/link/websocket"
)

func TestGameConfig(t *testing.T) {
	c := NewConfig()
	c.Codec, c.Policy, c.Drain = "parity", "lenient", "latest"
	c.SyncRate = 20
	conf, err := c.GameConfig(game.Ghost)
	require.NoError(t, err)
	require.Equal(t, codec.Parity{}, conf.Codec)
	require.Equal(t, codec.Lenient, conf.Policy)
	require.Equal(t, game.DrainLatest, conf.Drain)
	require.Equal(t, game.Rates{Movement: 15, Sync: 20, Result: 50, Display: 100}, conf.Rates)

	testCases := []struct {
		name string
		set  func(*Config)
	}{
		{"codec", func(c *Config) { c.Codec = "hamming" }},
		{"policy", func(c *Config) { c.Policy = "loose" }},
		{"drain", func(c *Config) { c.Drain = "none" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			tc.set(c)
			_, err := c.GameConfig(game.Human)
			require.Error(t, err)
		})
	}
}

func TestDefaults(t *testing.T) {
	c := NewConfig()
	require.Equal(t, "mem://", c.LinkURL)
	require.Equal(t, link.DefaultBufferSize, c.BufferSize)
	role, err := c.ParseRole()
	require.NoError(t, err)
	require.Equal(t, game.RoleUnknown, role)
	require.Nil(t, c.StatsView())
	c.BoardID = "b1"
	require.Equal(t, "b1", c.ResolveBoardID())
}

func TestOpenLink(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	testCases := []struct {
		url    string
		expect interface{}
	}{
		{"mem://", &link.Endpoint{}},
		{"tcp://" + ln.Addr().String(), &link.Stream{}},
		{"mqtt://localhost:1883/ghost/?channel=ir2", &mqtt.Transport{}},
		{"ws://localhost:8080/link/ir", &websocket.Transport{}},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			c := NewConfig()
			c.BoardID = "b1"
			c.LinkURL = tc.url
			l, err := c.OpenLink(context.TODO())
			require.NoError(t, err)
			require.IsType(t, tc.expect, l)
			if mt, ok := l.(*mqtt.Transport); ok {
				require.Equal(t, "ir2", mt.Channel)
				require.Equal(t, "b1", mt.BoardID)
			}
		})
	}

	c := NewConfig()
	c.LinkURL = "carrier-pigeon://home"
	_, err = c.OpenLink(context.TODO())
	require.Error(t, err)
}

func TestOpenLinkListen(t *testing.T) {
	c := NewConfig()
	c.LinkURL = "listen://127.0.0.1:0"
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.OpenLink(ctx)
	require.Equal(t, context.Canceled, err)
}

func TestStatusPublisher(t *testing.T) {
	var sw hal.Switches
	var m hal.Matrix
	a, _ := link.Pair(1)
	s, err := game.NewSession(game.Config{Role: game.Human, Link: a, Input: &sw, Display: &m})
	require.NoError(t, err)

	c := NewConfig()
	c.BoardID = "b1"
	p, err := c.StatusPublisher(s, a)
	require.NoError(t, err)
	require.Nil(t, p)

	c.LinkURL = "mqtt://localhost:1883/ghost/"
	l, err := c.OpenLink(context.TODO())
	require.NoError(t, err)
	p, err = c.StatusPublisher(s, l)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, "b1", p.BoardID)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("GHOST_ROLE", "ghost")
	t.Setenv("GHOST_MOVE_RATE", "20")
	t.Setenv("GHOST_BUDGET", "2ms")
	c := NewConfig()
	require.NoError(t, ParseEnv(c))
	require.Equal(t, "ghost", c.Role)
	require.Equal(t, uint(20), c.Rates(game.Ghost).Movement)
	require.Equal(t, 2*time.Millisecond, c.Budget)
	require.Equal(t, "mem://", c.LinkURL)

	t.Setenv("GHOST_BASE_RATE", "fast")
	require.Error(t, ParseEnv(NewConfig()))
}

func TestMonitorURL(t *testing.T) {
	c := NewConfig()
	c.StatusURL = ""
	require.Equal(t, DefaultMonitorURL, c.MonitorURL())

	t.Setenv("GHOST_STATUS_URL", "mqtt://broker:1883/hunt/")
	require.NoError(t, ParseEnv(c))
	require.Equal(t, "mqtt://broker:1883/hunt/", c.MonitorURL())
}
