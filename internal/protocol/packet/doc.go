// Package packet decodes and evaluates nested bit packets.
//
// Ownership boundary:
// - packet tree model (literal and operator variants)
// - recursive-descent decoding over a bits.Buffer
// - evaluation and version aggregation over decoded trees
package packet
