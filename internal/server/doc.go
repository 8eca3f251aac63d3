// Package server exposes the HTTP surface: the websocket endpoint that
// establishes sessions, the online-user snapshot, and the chat/notification
// collaborator endpoints that persist a record and then attempt a live push.
//
// Authentication is an external collaborator; handlers trust the already
// verified identity in the X-User-ID header, and the websocket endpoint takes
// it from the user_id query parameter supplied at connection time.
package server
