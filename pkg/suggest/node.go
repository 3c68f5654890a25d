package suggest

// root is the handle of the trie root. The root is never a child, so the
// same value also means "no node" in child slots and in next.
const root int32 = 0

// node is a trie vertex. Children are stored outside the struct, in a
// fixed-width row of the owning trie's edge table.
type node struct {
	// count is the best occurrence count reachable through this node.
	// On a terminator node it is the number of times its sentence was inserted.
	count int
	// next points at the child continuing the best completion.
	// Terminator nodes never set it.
	next int32
	code uint8
}

// arena owns every node of a trie and the edges between them.
type arena struct {
	nodes []node
	edges []int32
	width int
}

func newArena(letters int) *arena {
	width := letters + 1
	ar := &arena{
		nodes: make([]node, 1, 64),
		edges: make([]int32, width, 64*width),
		width: width,
	}
	return ar
}

func (ar *arena) child(n int32, code uint8) int32 {
	return ar.edges[int(n)*ar.width+int(code)]
}

// childOrCreate returns the child of n along code, allocating it when absent.
func (ar *arena) childOrCreate(n int32, code uint8) int32 {
	slot := int(n)*ar.width + int(code)
	if c := ar.edges[slot]; c != root {
		return c
	}
	c := int32(len(ar.nodes))
	ar.nodes = append(ar.nodes, node{code: code})
	ar.edges = append(ar.edges, make([]int32, ar.width)...)
	ar.edges[slot] = c
	return c
}

func (ar *arena) len() int { return len(ar.nodes) }
