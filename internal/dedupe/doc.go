// Package dedupe suppresses duplicate delivery of transport events.
//
// Matrix sync may redeliver events the bot already handled (reconnects,
// token rewinds). The Cache keeps recently handled event IDs in a TTL- and
// size-bounded set; the bridge drops any event whose ID was already seen
// before it reaches the conversation engine.
package dedupe
