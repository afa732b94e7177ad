// Package session stores per-user conversation state for dialogue flows.
// It knows nothing about Telegram or about the flows themselves: callers
// define their own State values and field names.
package session
