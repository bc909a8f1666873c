// Package client embeds a session-management client into a host program.
//
// Ownership boundary:
// - announce/open handshake at construction
// - single-message, non-blocking dispatch (PollOnce)
// - status and visibility announcements back to the server
// - resource import into the session directory
// - exit path on termination signals
//
// Lifecycle order:
// - New (blocking handshake, host Open callback) -> PollOnce... -> Exit
//
// The client spawns no goroutines. Every host callback runs on the
// goroutine that called New, PollOnce, Run or Exit.
//
// NullClient offers the same surface without a server, for hosts that also
// run outside a managed session.
package client
