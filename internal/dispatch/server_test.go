package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lcy0321/TwitterDiscordBot/internal/config"
	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

// fakeRepSocket serves a fixed queue of requests, then cancels the server
// context and fails the next Recv, as a closed socket would.
type fakeRepSocket struct {
	queue  [][]byte
	acks   [][]byte
	cancel context.CancelFunc
}

func (s *fakeRepSocket) Recv() ([]byte, error) {
	if len(s.queue) == 0 {
		s.cancel()
		return nil, errors.New("socket closed")
	}
	p := s.queue[0]
	s.queue = s.queue[1:]
	return p, nil
}

func (s *fakeRepSocket) Send(p []byte) error {
	s.acks = append(s.acks, append([]byte(nil), p...))
	return nil
}

func (s *fakeRepSocket) Close() error { return nil }

func newTestServer(t *testing.T, webhookURL string) *Server {
	t.Helper()
	srv, err := NewServer(&config.ForwarderConfig{
		Bind:     "tcp://127.0.0.1:5555",
		Webhooks: map[string]string{"general": webhookURL},
		Routes:   map[string][]string{"someuser": {"general"}},
		Pacing:   "1ms",
	}, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func TestServerForwardsAndAcks(t *testing.T) {
	t.Parallel()

	var bodies [][]byte
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	req, err := json.Marshal(Request{
		SourceID:   "someuser",
		SourceType: SourceTypeTwitter,
		Username:   "Some User",
		AvatarURL:  "https://a/img.png",
		Content:    "hello",
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sock := &fakeRepSocket{queue: [][]byte{req}, cancel: cancel}

	srv := newTestServer(t, hook.URL)
	if err := srv.serve(ctx, sock); err != nil {
		t.Fatalf("serve: %v", err)
	}

	if len(bodies) != 1 {
		t.Fatalf("webhook hit %d times, want 1", len(bodies))
	}
	var payload map[string]any
	if err := json.Unmarshal(bodies[0], &payload); err != nil {
		t.Fatal(err)
	}
	if payload["username"] != "Some User" || payload["content"] != "hello" {
		t.Fatalf("payload = %v", payload)
	}

	if len(sock.acks) != 1 {
		t.Fatalf("acks = %d, want 1", len(sock.acks))
	}
	if len(sock.acks[0]) != 0 {
		t.Fatalf("ack body = %q, want empty", sock.acks[0])
	}
}

func TestServerAcksUndecodableRequests(t *testing.T) {
	t.Parallel()
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("webhook should not be hit")
	}))
	defer hook.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sock := &fakeRepSocket{queue: [][]byte{[]byte("not json")}, cancel: cancel}

	srv := newTestServer(t, hook.URL)
	if err := srv.serve(ctx, sock); err != nil {
		t.Fatalf("serve: %v", err)
	}
	// The REP state machine demands a reply even for garbage.
	if len(sock.acks) != 1 {
		t.Fatalf("acks = %d, want 1", len(sock.acks))
	}
}

func TestServerFallsBackToDefaultRoute(t *testing.T) {
	t.Parallel()
	hits := 0
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	srv, err := NewServer(&config.ForwarderConfig{
		Bind:            "tcp://127.0.0.1:5555",
		Webhooks:        map[string]string{"general": hook.URL},
		DefaultChannels: []string{"general"},
		Pacing:          "1ms",
	}, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}

	req, _ := json.Marshal(Request{SourceID: "unrouted", SourceType: SourceTypeTwitter, Content: "x"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sock := &fakeRepSocket{queue: [][]byte{req}, cancel: cancel}

	if err := srv.serve(ctx, sock); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}
