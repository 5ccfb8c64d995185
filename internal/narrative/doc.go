// Package narrative adapts text-generation services to a single Generator
// interface used for the bot's human-sounding messages.
//
// The contract is deliberately forgiving: Generate returns ("", err) for any
// failure, and callers treat absence as the signal to use their deterministic
// fallback template. No failure here is ever user-visible.
//
// Backends: GeminiClient (Generative Language REST API), OpenAIClient (Azure
// OpenAI chat completions), and Disabled (always absent). CachedGenerator can
// wrap any backend to reuse generated text for repeated topics.
package narrative
