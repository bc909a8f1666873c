// Package nsm owns the session-management vocabulary carried over osc
// datagrams.
//
// Ownership boundary:
// - fixed address paths (handshake, runtime, status)
// - capability token strings for client and server
// - typed handshake messages with validation
// - routing of incoming runtime messages to a closed set of variants
package nsm
