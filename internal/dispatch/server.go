package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-zeromq/zmq4"
	"golang.org/x/time/rate"

	"github.com/lcy0321/TwitterDiscordBot/internal/config"
	"github.com/lcy0321/TwitterDiscordBot/internal/discord"
	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

const defaultServerPacing = 3 * time.Second

// repSocket is the slice of a ZeroMQ REP socket the server needs; tests
// substitute a fake.
type repSocket interface {
	Recv() ([]byte, error)
	Send(payload []byte) error
	Close() error
}

type zmqRepSocket struct {
	sock   zmq4.Socket
	cancel context.CancelFunc
}

func bindZMQ(addr string) (repSocket, error) {
	sctx, cancel := context.WithCancel(context.Background())
	sock := zmq4.NewRep(sctx)
	if err := sock.Listen(addr); err != nil {
		cancel()
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	return &zmqRepSocket{sock: sock, cancel: cancel}, nil
}

func (s *zmqRepSocket) Recv() ([]byte, error) {
	m, err := s.sock.Recv()
	if err != nil {
		return nil, err
	}
	return m.Bytes(), nil
}

func (s *zmqRepSocket) Send(payload []byte) error {
	return s.sock.Send(zmq4.NewMsg(payload))
}

func (s *zmqRepSocket) Close() error {
	err := s.sock.Close()
	s.cancel()
	return err
}

// Server is the forwarder's REP side: it binds once, posts each received
// request to its routed webhooks, and replies with an empty ACK. Pacing
// spaces the webhook posts; the ACK is sent only after the request is
// handled, so a slow Discord shows up as client-side retries rather than
// unbounded queueing.
type Server struct {
	cfg     *config.ForwarderConfig
	client  *discord.Client
	limiter *rate.Limiter
	log     logx.Logger

	sock repSocket
}

// NewServer builds the forwarder server from a validated config.
func NewServer(cfg *config.ForwarderConfig, log logx.Logger) (*Server, error) {
	pacing, err := config.ParseDurationOrDefault("pacing", cfg.Pacing, defaultServerPacing)
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Server{
		cfg:     cfg,
		client:  discord.NewClient(),
		limiter: rate.NewLimiter(rate.Every(pacing), 1),
		log:     log,
	}, nil
}

// Run binds the endpoint and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	sock, err := bindZMQ(s.cfg.Bind)
	if err != nil {
		return err
	}
	s.sock = sock
	s.log.Info("bound relay endpoint", logx.String("addr", s.cfg.Bind))

	// Closing the socket is the only way to unblock a pending Recv.
	go func() {
		<-ctx.Done()
		_ = sock.Close()
	}()

	return s.serve(ctx, sock)
}

func (s *Server) serve(ctx context.Context, sock repSocket) error {
	for {
		payload, err := sock.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("recv: %w", err)
		}

		s.handle(ctx, payload)

		// REP must answer every request; the ACK body is empty.
		if err := sock.Send([]byte{}); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("send ack: %w", err)
		}
	}
}

func (s *Server) handle(ctx context.Context, payload []byte) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		s.log.Error("dropping undecodable request", logx.Err(err))
		return
	}
	s.log.Info("received message request",
		logx.String("source_type", req.SourceType),
		logx.String("source_id", req.SourceID))

	channels := s.cfg.Routes[config.FoldKey(req.SourceID)]
	if len(channels) == 0 {
		channels = s.cfg.DefaultChannels
	}
	if len(channels) == 0 {
		s.log.Warn("no route for source, dropping", logx.String("source_id", req.SourceID))
		return
	}

	msg := req.Message()
	for _, channel := range channels {
		url, ok := config.ResolveWebhook(s.cfg.Webhooks, channel)
		if !ok {
			s.log.Error("channel has no webhook entry", logx.String("channel", channel))
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		status, err := s.client.Post(ctx, url, msg)
		switch {
		case err != nil:
			s.log.Error("webhook post failed",
				logx.String("source_id", req.SourceID),
				logx.String("channel", channel),
				logx.Err(err))
		case !discord.IsSuccess(status):
			s.log.Error("Discord rejected post",
				logx.String("source_id", req.SourceID),
				logx.String("channel", channel),
				logx.Int("status", status))
		default:
			s.log.Info("forwarded to Discord channel",
				logx.String("source_id", req.SourceID),
				logx.String("channel", channel))
		}
	}
}
