// Package protocol groups the BITS transmission wire primitives.
//
// Ownership boundary:
// - bits: hex-nibble bit cursor
// - packet: packet grammar, arena and evaluation
package protocol
