// Package session implements the websocket transport for one connected user.
//
// A session:
//   - Serializes writes and applies a per-write deadline
//   - Keeps the connection alive with ping/pong and a read deadline
//   - Discards inbound frames (the socket is push-only)
//   - Signals closure through Done so the owner can unbind it
package session
