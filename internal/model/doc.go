// Package model defines shared data types for the Pulse realtime backend.
//
// Conventions:
//   - User identities: opaque strings issued by the auth collaborator
//   - Record IDs: uuid.UUID, assigned at insert time
//   - Timestamps: time.Time in UTC
package model
