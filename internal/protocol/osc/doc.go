// Package osc owns the datagram wire format used by the session protocol.
//
// Ownership boundary:
// - address path + type tag + argument encoding
// - 4-byte alignment of strings and fixed-width numbers
// - decode failure taxonomy
//
// Only the subset of the format the session protocol uses is supported:
// 32-bit integers (i), 32-bit floats (f) and strings (s).
package osc
