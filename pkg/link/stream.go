package link

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
)

// Stream is a Transport over a byte stream, e.g. a serial port
// or a TCP connection. Reads and writes happen in the background
// so the scheduler never waits on the stream.
type Stream struct {
	ReadWriter io.ReadWriter

	inbox  *Buffer
	outbox *Buffer
}

// NewStream creates a Stream.
func NewStream(rw io.ReadWriter, size int) *Stream {
	return &Stream{
		ReadWriter: rw,
		inbox:      NewBuffer(size),
		outbox:     NewBuffer(size),
	}
}

// TryReceive implements Transport.
func (s *Stream) TryReceive() (byte, bool) {
	return s.inbox.TryReceive()
}

// Send implements Transport.
func (s *Stream) Send(b byte) error {
	if !s.outbox.Put(b) {
		return ErrOverrun
	}
	return nil
}

// Drops implements DropCounter.
func (s *Stream) Drops() uint64 {
	return s.inbox.Drops() + s.outbox.Drops()
}

// Run implements Runnable.
func (s *Stream) Run(ctx context.Context) error {
	closer, ok := s.ReadWriter.(io.Closer)
	if !ok {
		closer = nopCloser{}
	}
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.writeLoop(subCtx)
	err := fx.RunWithContextCloser(ctx, closer, s.readLoop)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// the peer may close first when both sides stop together.
		return ctxErr
	}
	return err
}

func (s *Stream) readLoop() error {
	buf := make([]byte, 1)
	for {
		n, err := s.ReadWriter.Read(buf)
		if err != nil {
			return err
		}
		if n > 0 && !s.inbox.Put(buf[0]) {
			glog.V(3).Infof("link overrun, byte %d dropped", buf[0])
		}
	}
}

func (s *Stream) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-s.outbox.C():
			if _, err := s.ReadWriter.Write([]byte{b}); err != nil {
				glog.Warningf("link write error: %v", err)
			}
		}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
