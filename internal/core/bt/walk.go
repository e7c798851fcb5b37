package bt

// Walk visits n from depth 0.
func Walk(n Node, v Visitor) bool { return n.Visit(v, 0) }

// Find returns the first node named name in pre-order, or nil.
func Find(n Node, name string) Node {
	var found Node
	Walk(n, func(cur Node, _ int) bool {
		if cur.Name() == name {
			found = cur
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes reachable by Visit.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node, int) bool {
		total++
		return true
	})
	return total
}
