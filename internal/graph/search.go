package graph

import "errors"

// ErrNotConnected is returned when no chain of shared movies links the two people.
var ErrNotConnected = errors.New("graph: not connected")

// SearchOptions configures ShortestPath.
type SearchOptions struct {
	OnExpand func(Node) // called for every polled node, may be nil
}

// ShortestPath performs a BFS from source and returns the first path found
// to target, which is a shortest one since every link has the same weight.
//
// Unknown ids fail with movies.ErrNotFound. When source equals target the
// result is an empty path. When target is unreachable the error is
// ErrNotConnected.
func ShortestPath(c Catalog, source, target string, opts SearchOptions) (Path, error) {
	if _, err := c.PersonByID(source); err != nil {
		return nil, err
	}
	if _, err := c.PersonByID(target); err != nil {
		return nil, err
	}
	if source == target {
		return Path{}, nil
	}

	frontier := NewFrontier()
	frontier.Offer(Node{State: source})

	for !frontier.Empty() {
		node, err := frontier.Poll()
		if err != nil {
			return nil, err
		}
		if opts.OnExpand != nil {
			opts.OnExpand(node)
		}

		steps, err := Neighbors(c, node.State)
		if err != nil {
			return nil, err
		}

		candidates := make([]Node, 0, len(steps))
		for _, s := range steps {
			if s.PersonID == target {
				return node.Path.extend(s), nil
			}
			// Skip the path copy for states the frontier would reject anyway.
			if frontier.Discovered(s.PersonID) {
				continue
			}
			candidates = append(candidates, Node{State: s.PersonID, Path: node.Path.extend(s)})
		}
		frontier.Offer(candidates...)
	}

	return nil, ErrNotConnected
}
