package bilingual

// Class names shared by the renderer and the toggle controller.
const (
	ClassToggle   = "toggle-fa"
	ClassFA       = "fa"
	ClassNoToggle = "no-toggle"
	ClassHidden   = "isHidden"
	ClassOpen     = "isOpen"
)

// Node is a minimal element-tree node, just enough structure for the toggle
// controller to walk ancestors and find the Persian sibling of a tapped
// toggle. The HTML renderer emits a matching structure.
type Node struct {
	Tag      string
	parent   *Node
	children []*Node
	classes  map[string]bool
}

// NewNode returns a node with the given tag and classes.
func NewNode(tag string, classes ...string) *Node {
	n := &Node{Tag: tag, classes: make(map[string]bool, len(classes))}
	for _, c := range classes {
		n.classes[c] = true
	}
	return n
}

// Append attaches child to n and returns child.
func (n *Node) Append(child *Node) *Node {
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Parent returns the node's parent, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node { return n.children }

// HasClass reports whether the class is set on this node.
func (n *Node) HasClass(class string) bool { return n.classes[class] }

// AddClass sets a class on the node.
func (n *Node) AddClass(class string) {
	if n.classes == nil {
		n.classes = make(map[string]bool)
	}
	n.classes[class] = true
}

// RemoveClass clears a class from the node.
func (n *Node) RemoveClass(class string) { delete(n.classes, class) }

// ToggleClass flips a class and reports whether it is now set.
func (n *Node) ToggleClass(class string) bool {
	if n.classes[class] {
		delete(n.classes, class)
		return false
	}
	n.AddClass(class)
	return true
}

// Closest walks from n up through its ancestors and returns the first node
// carrying the class, or nil.
func (n *Node) Closest(class string) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.classes[class] {
			return cur
		}
	}
	return nil
}

// Find returns the first descendant of n (depth-first, n excluded) with the
// class, or nil.
func (n *Node) Find(class string) *Node {
	for _, c := range n.children {
		if c.classes[class] {
			return c
		}
		if hit := c.Find(class); hit != nil {
			return hit
		}
	}
	return nil
}
