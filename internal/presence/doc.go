// Package presence implements the Connection Registry and the Presence
// Broadcaster.
//
// The registry is the single source of truth for which session currently
// represents which user:
//   - At most one session per user at any instant (last writer wins)
//   - A session maps to exactly one user for its lifetime
//   - Unbind compares session IDs, so a disconnect signal for a superseded
//     session never evicts a fresher binding
//
// The broadcaster republishes the full online-user set to every bound session
// whenever membership changes. Clients reconcile against the whole set, so a
// dropped broadcast self-heals on the next change.
package presence
