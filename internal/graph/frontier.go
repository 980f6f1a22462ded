package graph

import "errors"

// ErrEmptyFrontier is returned by Poll when no node is queued.
var ErrEmptyFrontier = errors.New("graph: empty frontier")

// Frontier is a FIFO queue of search nodes. A state is accepted at most once
// over the frontier's lifetime, whether it is still queued or already polled.
type Frontier struct {
	queue      []Node
	discovered map[string]bool
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{discovered: make(map[string]bool)}
}

// Empty reports whether no node is waiting to be polled.
func (f *Frontier) Empty() bool {
	return len(f.queue) == 0
}

// Len returns the number of queued nodes.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// Discovered reports whether state has ever been offered and accepted.
func (f *Frontier) Discovered(state string) bool {
	return f.discovered[state]
}

// Offer appends the nodes whose state has not been discovered yet, in order,
// and returns how many were accepted. Later duplicates within the same call
// are dropped too.
func (f *Frontier) Offer(nodes ...Node) int {
	accepted := 0
	for _, n := range nodes {
		if f.discovered[n.State] {
			continue
		}
		f.discovered[n.State] = true
		f.queue = append(f.queue, n)
		accepted++
	}
	return accepted
}

// Poll removes and returns the oldest queued node.
func (f *Frontier) Poll() (Node, error) {
	if f.Empty() {
		return Node{}, ErrEmptyFrontier
	}
	n := f.queue[0]
	f.queue[0] = Node{}
	f.queue = f.queue[1:]
	return n, nil
}
