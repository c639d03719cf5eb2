package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lcy0321/TwitterDiscordBot/internal/message"
	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

const (
	defaultAckTimeout       = 2 * time.Second
	defaultReconnectBackoff = 5 * time.Second
)

// ChannelConfig configures the Lazy Pirate client.
type ChannelConfig struct {
	// Addr is the forwarder endpoint, e.g. "tcp://127.0.0.1:5555".
	Addr string
	// AckTimeout bounds the wait for the forwarder's ACK. Default 2s.
	AckTimeout time.Duration
	// ReconnectBackoff is the pause before re-dialing after a timed-out
	// request. Default 5s.
	ReconnectBackoff time.Duration
}

// Channel hands messages to the forwarder over a REQ/REP socket.
//
// Reliability follows the Lazy Pirate pattern
// (https://zguide.zeromq.org/docs/chapter4/#Client-Side-Reliability-Lazy-Pirate-Pattern):
// the client, not the transport, detects a missing reply, and recovers by
// discarding the connection and retransmitting on a fresh one. There is no
// retry cap; Send returns only on ACK or context cancellation. Exactly one
// request is outstanding at a time.
type Channel struct {
	dial    dialFunc
	cfg     ChannelConfig
	log     logx.Logger
	sock    reqSocket
	dials   int // connections established, for tests and logs
	resends int
}

// NewChannel builds the channel dispatcher. It does not connect yet; the
// first Send dials.
func NewChannel(cfg ChannelConfig, log logx.Logger) *Channel {
	return newChannel(cfg, zmqDialer(cfg.Addr), log)
}

func newChannel(cfg ChannelConfig, dial dialFunc, log logx.Logger) *Channel {
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = defaultAckTimeout
	}
	if cfg.ReconnectBackoff <= 0 {
		cfg.ReconnectBackoff = defaultReconnectBackoff
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Channel{dial: dial, cfg: cfg, log: log}
}

// Send transmits the message and waits for the forwarder's ACK, retrying
// with reconnection until acknowledged. The payload is serialized once; every
// retransmission carries identical bytes.
func (c *Channel) Send(ctx context.Context, msg message.Message, dest Destination) error {
	payload, err := json.Marshal(newRequest(msg, dest))
	if err != nil {
		return err
	}

	for {
		if c.sock == nil {
			sock, err := c.dial(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.log.Warn("connect to forwarder failed",
					logx.String("addr", c.cfg.Addr), logx.Err(err))
				if err := c.backoff(ctx); err != nil {
					return err
				}
				continue
			}
			c.sock = sock
			c.dials++
			c.log.Info("connected to forwarder", logx.String("addr", c.cfg.Addr))
		}

		if err := c.sock.Send(payload); err != nil {
			c.log.Warn("send to forwarder failed", logx.Err(err))
			if err := c.discardAndBackoff(ctx); err != nil {
				return err
			}
			continue
		}

		actx, cancel := context.WithTimeout(ctx, c.cfg.AckTimeout)
		_, err := c.sock.Recv(actx)
		cancel()
		if err == nil {
			// ACK received; connection stays up for the next request.
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.resends++
		c.log.Warn("no ACK from forwarder, reconnecting and retrying",
			logx.String("account", dest.Account),
			logx.String("post_id", dest.PostID),
			logx.Duration("ack_timeout", c.cfg.AckTimeout))
		if err := c.discardAndBackoff(ctx); err != nil {
			return err
		}
	}
}

func (c *Channel) discardAndBackoff(ctx context.Context) error {
	if c.sock != nil {
		_ = c.sock.Close()
		c.sock = nil
	}
	return c.backoff(ctx)
}

// backoff waits the reconnect interval, but stays interruptible so shutdown
// is not delayed by a full backoff.
func (c *Channel) backoff(ctx context.Context) error {
	t := time.NewTimer(c.cfg.ReconnectBackoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Channel) Close() error {
	if c.sock == nil {
		return nil
	}
	err := c.sock.Close()
	c.sock = nil
	return err
}
