// Package metrics defines the bot's prometheus instrumentation.
package metrics
