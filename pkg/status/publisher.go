package status

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/link"
	"github.com/robotalks/ghosthunt/pkg/link/mqtt"
)

// TaskName is the name of the publisher task.
const TaskName = "status"

// DefaultRate is the rate in Hz the status is checked for changes.
const DefaultRate uint = 5

// Sink receives encoded statuses. Publish must not block.
type Sink interface {
	Publish(topic string, payload []byte) error
}

// Publisher is the task publishing the board status when it changes.
type Publisher struct {
	BoardID string
	Session *game.Session
	Link    link.Transport
	Sink    Sink
	// Rate defaults to DefaultRate.
	Rate uint

	last      *BoardStatus
	published uint64
}

// Published returns the number of statuses published.
func (p *Publisher) Published() uint64 {
	return p.published
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(l *fx.Loop) {
	rate := p.Rate
	if rate == 0 {
		rate = DefaultRate
	}
	if runnable, ok := p.Sink.(fx.Runnable); ok {
		l.AddRunnable(runnable)
	}
	l.AddTask(TaskName, p.Session.Period(rate), p)
}

// Control implements Controller.
func (p *Publisher) Control(cc fx.ControlContext) error {
	m := Snapshot(p.BoardID, p.Session, p.Link)
	if p.last != nil && *p.last == *m {
		return nil
	}
	p.last = m
	out := *m
	out.Tick = cc.Tick()
	payload, err := Encode(&out)
	if err != nil {
		return err
	}
	if err := p.Sink.Publish(Topic(p.BoardID), payload); err != nil {
		// retry on the next invocation.
		p.last = nil
		glog.V(2).Infof("status publish error: %v", err)
		return nil
	}
	p.published++
	return nil
}

// MQTTSink publishes retained statuses with a Queue.
type MQTTSink struct {
	Queue *mqtt.Queue
	// Connect makes the sink own the broker connection. It is false
	// when the Queue is shared with the link transport.
	Connect bool
}

// Publish implements Sink. The publish token is not waited.
func (s *MQTTSink) Publish(topic string, payload []byte) error {
	if !s.Queue.Connected() {
		return link.ErrNotReady
	}
	s.Queue.PubWith(topic, payload, 0, true)
	return nil
}

// Run implements Runnable.
func (s *MQTTSink) Run(ctx context.Context) error {
	if !s.Connect {
		return nil
	}
	if err := s.Queue.ConnectAndRetry(ctx, time.Second); err != nil {
		return err
	}
	defer s.Queue.Close()
	<-ctx.Done()
	return ctx.Err()
}

// Watch subscribes statuses of all boards on a Queue.
func Watch(q *mqtt.Queue, fn func(topic string, m *BoardStatus, err error)) *mqtt.Subscription {
	return q.Sub(TopicPrefix+"+", func(topic string, payload []byte) {
		m, err := Decode(payload)
		fn(topic, m, err)
	})
}
