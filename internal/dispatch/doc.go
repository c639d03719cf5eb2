// Package dispatch delivers rendered messages to their destination.
//
// The two implementations of Dispatcher are selected once at startup:
//
//   - Webhook posts straight to Discord channel webhooks with inter-post
//     pacing. A rejected post (non-2xx) is logged and dropped, never retried.
//   - Channel hands messages to the forwarder process over a ZeroMQ REQ/REP
//     socket using the Lazy Pirate pattern: a missing ACK discards the
//     connection, backs off, reconnects, and retransmits the same payload,
//     indefinitely. Losing a post is worse than stalling; the fetch cycle
//     above is rate-limited, so indefinite retry cannot amplify load.
//
// Server is the forwarder's REP side: bind once, post each received request
// to its routed webhooks, reply with an empty ACK.
package dispatch
