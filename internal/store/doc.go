// Package store implements the durable message and notification records.
//
// These are the collaborators the realtime core pushes for: every insert here
// happens strictly before the corresponding push attempt, so durability never
// depends on connection state. Unread-count correctness lives here, not in
// the fan-out path.
package store
