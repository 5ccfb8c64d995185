// Package engine implements the conversational state machine that sells a
// car insurance policy over chat.
//
// # Flow
//
// A session moves through a linear set of stages:
//
//	fresh → awaiting_passport → awaiting_vehicle_doc →
//	confirming_data → confirming_price → completed
//
// One inbound Event (text or attachment) produces an ordered list of
// outbound Actions (send-text, send-file) and at most one stage transition.
// The reset command restarts the flow from any stage. Any event that does
// not match an expected transition for the current stage leaves the stage
// unchanged and produces a single clarifying message.
//
// # Confirmations
//
// Yes/no answers are recognized by case-insensitive substring matching
// against small fixed vocabularies. The affirmative vocabulary is checked
// first: "yes but no" confirms.
//
// # Collaborators
//
// The engine drives three collaborators through narrow interfaces: the
// extraction adapter (document photos → typed records, retried once on
// failure), the narrative generator (topics → human-sounding messages,
// absence → deterministic fallbacks), and the policy assembler (captured
// record → delivered policy document).
//
// # Concurrency
//
// HandleEvent holds the per-user session lock for its full duration, so
// events for one user are processed strictly one at a time while different
// users proceed in parallel.
package engine
