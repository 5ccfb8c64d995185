// Package session tracks per-user purchase flow state.
//
// Each user (keyed by their chat room) has exactly one Session holding the
// current Stage, the attachment references for the two submitted documents,
// and the merged extraction Record. Sessions are created lazily on first
// access and live for the process lifetime; there is no persistence.
//
// The Store serializes access per user: callers acquire the user's lock for
// the duration of handling one inbound event, so concurrent events for the
// same user cannot double-advance a stage or lose an attachment reference.
// Events for different users proceed in parallel.
package session
