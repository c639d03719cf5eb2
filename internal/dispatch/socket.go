package dispatch

import (
	"context"

	"github.com/go-zeromq/zmq4"
)

// reqSocket is the slice of a ZeroMQ REQ socket the Lazy Pirate client needs.
// Tests substitute a fake to exercise the retry loop without a broker.
type reqSocket interface {
	Send(payload []byte) error
	// Recv blocks until a reply arrives, the context expires, or the socket
	// is closed.
	Recv(ctx context.Context) ([]byte, error)
	Close() error
}

// dialFunc establishes a fresh connection to the forwarder endpoint.
type dialFunc func(ctx context.Context) (reqSocket, error)

type zmqReqSocket struct {
	sock   zmq4.Socket
	cancel context.CancelFunc
}

// zmqDialer returns the real ZeroMQ dialer for addr. Each call creates a new
// socket: Lazy Pirate recovery depends on discarding the old one wholesale.
func zmqDialer(addr string) dialFunc {
	return func(ctx context.Context) (reqSocket, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// The socket's lifetime is until Close, not until the dial context
		// ends.
		sctx, cancel := context.WithCancel(context.Background())
		sock := zmq4.NewReq(sctx)
		if err := sock.Dial(addr); err != nil {
			cancel()
			return nil, err
		}
		return &zmqReqSocket{sock: sock, cancel: cancel}, nil
	}
}

func (s *zmqReqSocket) Send(payload []byte) error {
	return s.sock.Send(zmq4.NewMsg(payload))
}

func (s *zmqReqSocket) Recv(ctx context.Context) ([]byte, error) {
	type result struct {
		msg zmq4.Msg
		err error
	}
	// zmq4's Recv has no deadline of its own; poll it from a goroutine so the
	// ack-timeout context stays in charge. On timeout the caller closes the
	// socket, which unblocks the pending Recv.
	ch := make(chan result, 1)
	go func() {
		m, err := s.sock.Recv()
		ch <- result{msg: m, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return r.msg.Bytes(), nil
	}
}

func (s *zmqReqSocket) Close() error {
	err := s.sock.Close()
	s.cancel()
	return err
}
