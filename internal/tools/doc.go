// Package tools provides host/runtime helpers shared by the client and the
// host binaries.
//
// Ownership boundary:
// - executable identity on $PATH
// - process signalling primitives
package tools
