// Package protocol is the decode-and-evaluate entry point for hex encoded
// bit packet messages.
//
// Ownership boundary:
// - bits: hex/binary text to bit buffers, bounded field reads
// - packet: packet tree decoding, evaluation, version aggregation
// - protocol: message level contract, batch processing, error classes
package protocol
