package mount

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// DefaultSelector is the selector of the main content region.
const DefaultSelector = "main"

// ErrNotFound is returned when no node matches a selector.
var ErrNotFound = errors.New("mount point not found")

// Node is a mount point: where an application reads input and renders output.
type Node struct {
	Selector string
	In       io.Reader
	Out      io.Writer
}

// Document holds the mount points available to the host.
type Document struct {
	mu    sync.RWMutex
	nodes map[string]*Node
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{nodes: make(map[string]*Node)}
}

// Terminal returns a document whose main node is bound to stdin and stdout.
func Terminal() *Document {
	d := NewDocument()
	d.Register(DefaultSelector, os.Stdin, os.Stdout)
	return d
}

// Register adds or replaces the node for selector.
func (d *Document) Register(selector string, in io.Reader, out io.Writer) *Node {
	n := &Node{Selector: selector, In: in, Out: out}

	d.mu.Lock()
	d.nodes[selector] = n
	d.mu.Unlock()

	return n
}

// QuerySelector returns the node registered under selector.
func (d *Document) QuerySelector(selector string) (*Node, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: %q (no document)", ErrNotFound, selector)
	}

	d.mu.RLock()
	n, ok := d.nodes[selector]
	d.mu.RUnlock()

	if !ok || selector == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, selector)
	}
	return n, nil
}

// Selectors returns the registered selectors in sorted order.
func (d *Document) Selectors() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.nodes))
	for s := range d.nodes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
