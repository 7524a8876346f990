// Package mount provides named mount points that applications render into.
// A Document maps selectors to nodes, each pairing an input reader with an
// output writer.
package mount
